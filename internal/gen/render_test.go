package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assembler-generator/internal/model"
	"assembler-generator/internal/model/modeltest"
)

const holderWorkspace = `
files:
  - path: src/pkg/assemblers/UserDtoAssembler.src
    package: pkg.assemblers
    imports:
      - {path: pkg.dto, alias: dto}
    decls:
      - name: UserDtoAssembler
        kind: interface
        annotations: [{name: mapper.Mapper}]
        fields:
          - name: Instance
            type: pkg.assemblers.UserDtoAssembler
            static: true
            init: mappers.Get(UserDtoAssembler)
        methods:
          - name: convert
            params:
              - name: userEntity
                type: pkg.UserEntity
                annotations: [{name: lang.Nullable}]
            result: pkg.dto.UserDto
            annotations:
              - name: mapper.Named
                args: [{key: value, value: '"tag"'}]
            doc: "Converts.\n\nSecond."
          - name: convertOrNewInstance
            default: true
            params: [{name: userEntity, type: pkg.UserEntity}]
            result: pkg.dto.UserDto
            body: ["return new(dto.UserDto)"]
          - name: convertFromUserEntityList
            params: [{name: userEntityList, type: "[]pkg.UserEntity"}]
            result: "[]pkg.dto.UserDto"
`

func TestRenderFile_Holder(t *testing.T) {
	m, err := model.Parse([]byte(holderWorkspace))
	require.NoError(t, err)

	f, ok := m.File("src/pkg/assemblers/UserDtoAssembler.src")
	require.True(t, ok)

	got, err := RenderFile(f)
	require.NoError(t, err)

	want := `package pkg.assemblers

import (
	dto "pkg.dto"
)

@mapper.Mapper
type UserDtoAssembler interface {
	static Instance UserDtoAssembler = mappers.Get(UserDtoAssembler)

	// Converts.
	//
	// Second.
	@mapper.Named(value = "tag")
	convert(@lang.Nullable userEntity pkg.UserEntity) dto.UserDto

	default convertOrNewInstance(userEntity pkg.UserEntity) dto.UserDto {
		return new(dto.UserDto)
	}

	convertFromUserEntityList(userEntityList []pkg.UserEntity) []dto.UserDto
}
`
	assert.Equal(t, "src/pkg/assemblers/UserDtoAssembler.src", got.Filename)
	assert.Equal(t, want, string(got.Content))
}

func TestRenderFile_Sites(t *testing.T) {
	m := modeltest.Sample(t)

	f, ok := m.File(modeltest.ServicePath)
	require.True(t, ok)

	got, err := RenderFile(f)
	require.NoError(t, err)

	content := string(got.Content)
	assert.Contains(t, content, "type UserService class {\n\ttype Cache class {}\n}\n")
	assert.Contains(t, content, "// Call sites\n")
	assert.Contains(t, content, "// get-user in UserService.getUser\nreturn repo.find(id)\n")
	assert.Contains(t, content, "var _ []pkg.dto.UserDto = repo.findAll()\n")
	assert.NotContains(t, content, "import (")
}

func TestRenderFiles_WriteFiles(t *testing.T) {
	m := modeltest.Sample(t)

	files, err := RenderFiles(m.Files())
	require.NoError(t, err)
	require.Len(t, files, len(m.Files()))

	out := t.TempDir()
	require.NoError(t, WriteFiles(files, out))

	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(f.Filename)))
		require.NoError(t, err)
		assert.Equal(t, f.Content, data)
	}
}
