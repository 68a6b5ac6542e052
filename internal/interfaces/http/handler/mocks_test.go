package handler

import (
	"context"
	"time"

	appbudget "github.com/procurement/budget/internal/application/budget"
	"github.com/stretchr/testify/mock"
)

// MockFSWorkflow is a mock implementation of FSWorkflow
type MockFSWorkflow struct {
	mock.Mock
}

func (m *MockFSWorkflow) CreateFS(ctx context.Context, cpID, owner string, date time.Time, req appbudget.CreateFSRequest) (*appbudget.FSResponse, error) {
	args := m.Called(ctx, cpID, owner, date, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbudget.FSResponse), args.Error(1)
}

func (m *MockFSWorkflow) UpdateFS(ctx context.Context, cpID, ocID, token, owner string, req appbudget.UpdateFSRequest) (*appbudget.FSResponse, error) {
	args := m.Called(ctx, cpID, ocID, token, owner, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbudget.FSResponse), args.Error(1)
}

// MockRuleReader is a mock implementation of RuleReader
type MockRuleReader struct {
	mock.Mock
}

func (m *MockRuleReader) GetRule(ctx context.Context, country, parameter string) (*appbudget.RuleResponse, error) {
	args := m.Called(ctx, country, parameter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbudget.RuleResponse), args.Error(1)
}

// MockPinger is a mock implementation of Pinger
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
