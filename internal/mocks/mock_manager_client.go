// Package mocks holds testify mocks for the ports interfaces, in the layout
// mockery produces (see .mockery.yaml).
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/cloudify-context/internal/domain"
)

// MockManagerClient is a mock implementation of ports.ManagerClient.
type MockManagerClient struct {
	mock.Mock
}

// MockManagerClient_Expecter provides typed expectation helpers.
type MockManagerClient_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation builder.
func (_m *MockManagerClient) EXPECT() *MockManagerClient_Expecter {
	return &MockManagerClient_Expecter{mock: &_m.Mock}
}

// NewMockManagerClient creates a mock and asserts its expectations on cleanup.
func NewMockManagerClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockManagerClient {
	m := &MockManagerClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// GetBlueprint provides a mock function.
func (_m *MockManagerClient) GetBlueprint(ctx context.Context, id string) (*domain.Blueprint, error) {
	ret := _m.Called(ctx, id)

	if fn, ok := ret.Get(0).(func(context.Context, string) (*domain.Blueprint, error)); ok {
		return fn(ctx, id)
	}

	var r0 *domain.Blueprint
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Blueprint)
	}

	return r0, ret.Error(1)
}

// MockManagerClient_GetBlueprint_Call wraps mock.Call for GetBlueprint.
type MockManagerClient_GetBlueprint_Call struct {
	*mock.Call
}

// GetBlueprint registers an expectation.
func (_e *MockManagerClient_Expecter) GetBlueprint(ctx interface{}, id interface{}) *MockManagerClient_GetBlueprint_Call {
	return &MockManagerClient_GetBlueprint_Call{Call: _e.mock.On("GetBlueprint", ctx, id)}
}

func (_c *MockManagerClient_GetBlueprint_Call) Run(run func(ctx context.Context, id string)) *MockManagerClient_GetBlueprint_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockManagerClient_GetBlueprint_Call) Return(_a0 *domain.Blueprint, _a1 error) *MockManagerClient_GetBlueprint_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockManagerClient_GetBlueprint_Call) RunAndReturn(run func(context.Context, string) (*domain.Blueprint, error)) *MockManagerClient_GetBlueprint_Call {
	_c.Call.Return(run)
	return _c
}

// GetDeployment provides a mock function.
func (_m *MockManagerClient) GetDeployment(ctx context.Context, id string) (*domain.Deployment, error) {
	ret := _m.Called(ctx, id)

	if fn, ok := ret.Get(0).(func(context.Context, string) (*domain.Deployment, error)); ok {
		return fn(ctx, id)
	}

	var r0 *domain.Deployment
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Deployment)
	}

	return r0, ret.Error(1)
}

// MockManagerClient_GetDeployment_Call wraps mock.Call for GetDeployment.
type MockManagerClient_GetDeployment_Call struct {
	*mock.Call
}

// GetDeployment registers an expectation.
func (_e *MockManagerClient_Expecter) GetDeployment(ctx interface{}, id interface{}) *MockManagerClient_GetDeployment_Call {
	return &MockManagerClient_GetDeployment_Call{Call: _e.mock.On("GetDeployment", ctx, id)}
}

func (_c *MockManagerClient_GetDeployment_Call) Run(run func(ctx context.Context, id string)) *MockManagerClient_GetDeployment_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockManagerClient_GetDeployment_Call) Return(_a0 *domain.Deployment, _a1 error) *MockManagerClient_GetDeployment_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockManagerClient_GetDeployment_Call) RunAndReturn(run func(context.Context, string) (*domain.Deployment, error)) *MockManagerClient_GetDeployment_Call {
	_c.Call.Return(run)
	return _c
}

// GetNode provides a mock function.
func (_m *MockManagerClient) GetNode(ctx context.Context, deploymentID string, nodeID string) (*domain.Node, error) {
	ret := _m.Called(ctx, deploymentID, nodeID)

	if fn, ok := ret.Get(0).(func(context.Context, string, string) (*domain.Node, error)); ok {
		return fn(ctx, deploymentID, nodeID)
	}

	var r0 *domain.Node
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Node)
	}

	return r0, ret.Error(1)
}

// MockManagerClient_GetNode_Call wraps mock.Call for GetNode.
type MockManagerClient_GetNode_Call struct {
	*mock.Call
}

// GetNode registers an expectation.
func (_e *MockManagerClient_Expecter) GetNode(ctx interface{}, deploymentID interface{}, nodeID interface{}) *MockManagerClient_GetNode_Call {
	return &MockManagerClient_GetNode_Call{Call: _e.mock.On("GetNode", ctx, deploymentID, nodeID)}
}

func (_c *MockManagerClient_GetNode_Call) Run(run func(ctx context.Context, deploymentID string, nodeID string)) *MockManagerClient_GetNode_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(string))
	})
	return _c
}

func (_c *MockManagerClient_GetNode_Call) Return(_a0 *domain.Node, _a1 error) *MockManagerClient_GetNode_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockManagerClient_GetNode_Call) RunAndReturn(run func(context.Context, string, string) (*domain.Node, error)) *MockManagerClient_GetNode_Call {
	_c.Call.Return(run)
	return _c
}

// GetNodeInstance provides a mock function.
func (_m *MockManagerClient) GetNodeInstance(ctx context.Context, id string, evaluateFunctions bool) (*domain.NodeInstance, error) {
	ret := _m.Called(ctx, id, evaluateFunctions)

	if fn, ok := ret.Get(0).(func(context.Context, string, bool) (*domain.NodeInstance, error)); ok {
		return fn(ctx, id, evaluateFunctions)
	}

	var r0 *domain.NodeInstance
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.NodeInstance)
	}

	return r0, ret.Error(1)
}

// MockManagerClient_GetNodeInstance_Call wraps mock.Call for GetNodeInstance.
type MockManagerClient_GetNodeInstance_Call struct {
	*mock.Call
}

// GetNodeInstance registers an expectation.
func (_e *MockManagerClient_Expecter) GetNodeInstance(ctx interface{}, id interface{}, evaluateFunctions interface{}) *MockManagerClient_GetNodeInstance_Call {
	return &MockManagerClient_GetNodeInstance_Call{Call: _e.mock.On("GetNodeInstance", ctx, id, evaluateFunctions)}
}

func (_c *MockManagerClient_GetNodeInstance_Call) Run(run func(ctx context.Context, id string, evaluateFunctions bool)) *MockManagerClient_GetNodeInstance_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(bool))
	})
	return _c
}

func (_c *MockManagerClient_GetNodeInstance_Call) Return(_a0 *domain.NodeInstance, _a1 error) *MockManagerClient_GetNodeInstance_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockManagerClient_GetNodeInstance_Call) RunAndReturn(run func(context.Context, string, bool) (*domain.NodeInstance, error)) *MockManagerClient_GetNodeInstance_Call {
	_c.Call.Return(run)
	return _c
}

// FetchURL provides a mock function.
func (_m *MockManagerClient) FetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	ret := _m.Called(ctx, rawURL)

	if fn, ok := ret.Get(0).(func(context.Context, string) ([]byte, error)); ok {
		return fn(ctx, rawURL)
	}

	var r0 []byte
	if v := ret.Get(0); v != nil {
		r0 = v.([]byte)
	}

	return r0, ret.Error(1)
}

// MockManagerClient_FetchURL_Call wraps mock.Call for FetchURL.
type MockManagerClient_FetchURL_Call struct {
	*mock.Call
}

// FetchURL registers an expectation.
func (_e *MockManagerClient_Expecter) FetchURL(ctx interface{}, rawURL interface{}) *MockManagerClient_FetchURL_Call {
	return &MockManagerClient_FetchURL_Call{Call: _e.mock.On("FetchURL", ctx, rawURL)}
}

func (_c *MockManagerClient_FetchURL_Call) Run(run func(ctx context.Context, rawURL string)) *MockManagerClient_FetchURL_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockManagerClient_FetchURL_Call) Return(_a0 []byte, _a1 error) *MockManagerClient_FetchURL_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockManagerClient_FetchURL_Call) RunAndReturn(run func(context.Context, string) ([]byte, error)) *MockManagerClient_FetchURL_Call {
	_c.Call.Return(run)
	return _c
}
