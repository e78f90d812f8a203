package rmaview

import (
	"context"

	"github.com/iccolo/rmagui/rmaapi"
	"github.com/stretchr/testify/mock"
)

type mockAPI struct {
	mock.Mock
}

var _ rmaapi.API = (*mockAPI)(nil)

func (m *mockAPI) InstanceList(ctx context.Context) ([]rmaapi.InstanceStatus, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]rmaapi.InstanceStatus)
	return list, args.Error(1)
}

func (m *mockAPI) ExpectInstanceList(list []rmaapi.InstanceStatus, err error) *mock.Call {
	return m.On("InstanceList", mock.Anything).Return(list, err)
}

func (m *mockAPI) StartAnalyze(ctx context.Context, request rmaapi.AnalyzeRequest) error {
	return m.Called(ctx, request).Error(0)
}

func (m *mockAPI) ExpectStartAnalyze(request rmaapi.AnalyzeRequest, err error) *mock.Call {
	return m.On("StartAnalyze", mock.Anything, request).Return(err)
}

func (m *mockAPI) KeyTypes(ctx context.Context, host string) ([]string, error) {
	args := m.Called(ctx, host)
	keyTypes, _ := args.Get(0).([]string)
	return keyTypes, args.Error(1)
}

func (m *mockAPI) ExpectKeyTypes(host string, keyTypes []string, err error) *mock.Call {
	return m.On("KeyTypes", mock.Anything, host).Return(keyTypes, err)
}

func (m *mockAPI) Expand(ctx context.Context, request rmaapi.ExpandRequest) ([]rmaapi.NodeInfo, error) {
	args := m.Called(ctx, request)
	nodes, _ := args.Get(0).([]rmaapi.NodeInfo)
	return nodes, args.Error(1)
}

func (m *mockAPI) ExpectExpand(request rmaapi.ExpandRequest, nodes []rmaapi.NodeInfo, err error) *mock.Call {
	return m.On("Expand", mock.Anything, request).Return(nodes, err)
}

func (m *mockAPI) KeyInfo(ctx context.Context, host, key string) (*rmaapi.KeyInfo, error) {
	args := m.Called(ctx, host, key)
	ki, _ := args.Get(0).(*rmaapi.KeyInfo)
	return ki, args.Error(1)
}

func (m *mockAPI) ExpectKeyInfo(host, key string, ki *rmaapi.KeyInfo, err error) *mock.Call {
	return m.On("KeyInfo", mock.Anything, host, key).Return(ki, err)
}
