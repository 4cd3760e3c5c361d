package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jsamuelsen/cloudify-context/internal/domain"
)

// Connection defaults applied when a descriptor omits them.
const (
	// DefaultRestPort is the manager REST port.
	DefaultRestPort = 80

	// DefaultRestProtocol is the manager REST protocol.
	DefaultRestProtocol = "http"
)

// Descriptor is the serialized context record written by the orchestrator
// for an operation or workflow. It names the variant and carries the
// connection, credential and scope identifiers needed to build a context.
type Descriptor struct {
	IsOperation             bool `koanf:"is_operation"`
	IsRelationshipOperation bool `koanf:"is_relationship_operation"`

	RestHost     string `koanf:"rest_host"     validate:"required"`
	RestPort     int    `koanf:"rest_port"     validate:"min=1,max=65535"`
	RestProtocol string `koanf:"rest_protocol" validate:"oneof=http https"`
	SSLCert      string `koanf:"ssl_cert"`
	TrustAll     bool   `koanf:"trust_all"`

	Username string `koanf:"username" validate:"required"`
	Password string `koanf:"password"`
	Tenant   string `koanf:"tenant"`

	BlueprintID  string `koanf:"blueprint_id"  validate:"required"`
	DeploymentID string `koanf:"deployment_id" validate:"required"`

	InstanceID       string `koanf:"instance_id"`
	SourceInstanceID string `koanf:"source_instance_id"`
	TargetInstanceID string `koanf:"target_instance_id"`
	WorkflowID       string `koanf:"workflow_id"`
}

// Kind selects the context variant. The operation flag wins over the
// relationship flag; with neither set the descriptor is a workflow.
func (d *Descriptor) Kind() domain.ContextKind {
	switch {
	case d.IsOperation:
		return domain.KindOperation
	case d.IsRelationshipOperation:
		return domain.KindRelationship
	default:
		return domain.KindWorkflow
	}
}

// Validate checks common fields, then the identifiers of the selected
// variant. Identifiers that belong to a different variant are rejected.
func (d *Descriptor) Validate() error {
	if err := validate.Struct(d); err != nil {
		return formatValidationErrors("descriptor", err)
	}

	type field struct {
		key, value string
	}

	var required, foreign []field

	instance := field{"instance_id", d.InstanceID}
	source := field{"source_instance_id", d.SourceInstanceID}
	target := field{"target_instance_id", d.TargetInstanceID}
	workflow := field{"workflow_id", d.WorkflowID}

	switch d.Kind() {
	case domain.KindOperation:
		required = []field{instance}
		foreign = []field{source, target, workflow}
	case domain.KindRelationship:
		required = []field{source, target}
		foreign = []field{instance, workflow}
	default:
		required = []field{workflow}
		foreign = []field{instance, source, target}
	}

	for _, f := range required {
		if f.value == "" {
			return domain.NewValidationError(f.key, fmt.Sprintf("is required for %s contexts", d.Kind()))
		}
	}

	for _, f := range foreign {
		if f.value != "" {
			return domain.NewValidationError(f.key, fmt.Sprintf("is not accepted by %s contexts", d.Kind()))
		}
	}

	return nil
}

// LoadDescriptor reads and validates a JSON context descriptor. Read and
// parse failures are returned wrapped; unknown keys are decode errors.
func LoadDescriptor(path string) (*Descriptor, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(map[string]any{
		"rest_port":     DefaultRestPort,
		"rest_protocol": DefaultRestProtocol,
	}, "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading descriptor defaults: %w", err)
	}

	err = k.Load(file.Provider(path), json.Parser())
	if err != nil {
		return nil, fmt.Errorf("reading descriptor %s: %w", path, err)
	}

	if !k.Exists("password") {
		return nil, domain.NewValidationError("password", "is required")
	}

	var d Descriptor

	err = k.UnmarshalWithConf("", &d, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &d,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("decoding descriptor %s: %w", path, err)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return &d, nil
}
