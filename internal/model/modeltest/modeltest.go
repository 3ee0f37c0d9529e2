// Package modeltest provides sample workspaces for tests of packages built on
// the program model.
package modeltest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"assembler-generator/internal/model"
)

// SampleYAML is a workspace with an entity package, a dto package, a service
// with inspected sites, a Go module and a read-only vendored library.
const SampleYAML = `
read_only: [vendor]
markers:
  - path: app/go.mod
    content: |
      module example.com/app

      go 1.24
types:
  - name: math/big.Int
    zero_arg: true
  - name: pkg.List
    params: [E]
    supers: ["builtin.Sequence[E]"]
    interface: true
files:
  - path: src/main/go/pkg/UserEntity.src
    package: pkg
    decls:
      - name: UserEntity
        zero_arg: true
      - name: AdminEntity
        supers: [pkg.UserEntity]
        zero_arg: true
  - path: src/main/go/pkg/dto/UserDto.src
    package: pkg.dto
    decls:
      - name: UserDto
        zero_arg: true
      - name: AccountDto
  - path: src/main/go/pkg/service/UserService.src
    package: pkg.service
    decls:
      - name: UserService
        nested:
          - name: Cache
    sites:
      - id: get-user
        kind: return
        expr: repo.find(id)
        type: pkg.UserEntity
        target: pkg.dto.UserDto
        enclosing: UserService
        function: getUser
      - id: list-users
        kind: declaration
        expr: repo.findAll()
        type: "[]pkg.UserEntity"
        target: "[]pkg.dto.UserDto"
        enclosing: UserService
        function: listUsers
      - id: count-users
        kind: return
        expr: repo.count()
        type: pkg.UserEntity
        target: math/big.Int
        enclosing: UserService
        function: countUsers
      - id: in-lambda
        kind: return
        expr: repo.find(id)
        type: pkg.UserEntity
        target: pkg.dto.UserDto
        enclosing: UserService
        function: each
        in_lambda: true
      - id: literal
        kind: declaration
        expr: "null"
        type: pkg.UserEntity
        target: pkg.dto.UserDto
        enclosing: UserService
        function: reset
        literal: true
      - id: admin
        kind: return
        expr: repo.admin()
        type: pkg.AdminEntity
        target: pkg.UserEntity
        enclosing: UserService
        function: admin
      - id: account
        kind: return
        expr: repo.find(id)
        type: pkg.UserEntity
        target: pkg.dto.AccountDto
        enclosing: UserService
        function: account
  - path: app/internal/orders/order.src
    package: example.com/app/internal/orders
    decls:
      - name: Order
        zero_arg: true
      - name: OrderView
        zero_arg: true
    sites:
      - id: view-order
        kind: declaration
        expr: load()
        type: example.com/app/internal/orders.Order
        target: example.com/app/internal/orders.OrderView
        function: show
  - path: vendor/lib/Assemblers.src
    package: lib
    decls:
      - name: UserDtoAssembler
        kind: interface
        annotations:
          - name: mapper.Mapper
`

// Sample parses SampleYAML.
func Sample(t testing.TB) *model.Memory {
	t.Helper()

	m, err := model.Parse([]byte(SampleYAML))
	require.NoError(t, err)

	return m
}

// Site returns the site with the given ID from a file of m.
func Site(t testing.TB, m *model.Memory, filePath, id string) model.Site {
	t.Helper()

	sites, _, err := m.Sites(filePath)
	require.NoError(t, err)

	for _, s := range sites {
		if s.ID == id {
			return s
		}
	}

	require.Failf(t, "site not found", "%s in %s", id, filePath)

	return model.Site{}
}

// ServicePath is the path of the file holding the sample sites.
const ServicePath = "src/main/go/pkg/service/UserService.src"

// OrdersPath is the path of the sample file inside the Go module.
const OrdersPath = "app/internal/orders/order.src"
