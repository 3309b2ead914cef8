// Package mocks provides gomock-generated implementations of the port interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockRoleStore(ctrl)
//	store.EXPECT().GetRole(gomock.Any(), "user-1").Return("student", true, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=role_store_mock.go github.com/target/talent-ui-api/internal/ports RoleStore
