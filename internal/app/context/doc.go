// Package context resolves and exposes the orchestration context an
// operation or workflow runs in.
//
// A context is one of three variants sharing a common core:
//
//   - *Operation runs against a single node instance.
//   - *Relationship runs against a source and a target node instance.
//   - *Workflow is scoped to a deployment only.
//
// Every variant reads blueprint and deployment records and file resources
// from the manager. Records are fetched on first use and memoized for the
// lifetime of the context value:
//
//	c, err := resolver.Current(ctx)
//	if err != nil {
//	    return err
//	}
//
//	bp, err := c.Blueprint(ctx)       // one request
//	bp, err = c.Blueprint(ctx)        // cached
//
//	if op, ok := c.(*Operation); ok {
//	    node, err := op.Node(ctx)     // fetches the instance first
//	}
//
// # Resources
//
// GetResource looks a path up in the deployment's resource folder and,
// only when that returns 404, in the blueprint's folder:
//
//	{file server}/deployments/{tenant}/{deployment}/{path}
//	{file server}/blueprints/{tenant}/{blueprint}/{path}
//
// GetResourceFromManager skips scoping and joins the path directly onto the
// file server URL.
//
// # Passing the context
//
// The resolved value travels explicitly. Store it with WithContext and read
// it back with FromContext:
//
//	ctx = context.WithContext(ctx, c)
//	...
//	c := context.FromContext(ctx)
package context
