package minext

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// instanceDir lays out a data directory with two good instances, a broken
// one, the problem statement and an unrelated file.
func instanceDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "DatosProyecto")
	writeFile(t, filepath.Join(dir, "Prueba1.txt"), sampleInstance)
	writeFile(t, filepath.Join(dir, "Prueba10.txt"), sampleInstance)
	writeFile(t, filepath.Join(dir, "Prueba2.txt"), strings.Replace(sampleInstance, "3,4,3", "3,4", 1))
	writeFile(t, filepath.Join(dir, "enunciado.txt"), "Minimizar el extremismo.\n")
	writeFile(t, filepath.Join(dir, "notas.md"), "# notas\n")
	writeFile(t, filepath.Join(dir, "sub", "Prueba3.txt"), sampleInstance)
	return dir
}

func testConverter(t *testing.T, outDir string) *Converter {
	cfg := DefaultConfig()
	cfg.OutputDir = outDir
	return NewConverter(cfg, zaptest.NewLogger(t))
}

func TestConverterInputs(t *testing.T) {
	dir := instanceDir(t)
	cv := testConverter(t, "")

	files, err := cv.Inputs([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Prueba1.txt"),
		filepath.Join(dir, "Prueba2.txt"),
		filepath.Join(dir, "Prueba10.txt"),
	}, files)

	// explicit names bypass the skip list and duplicates collapse
	files, err = cv.Inputs([]string{filepath.Join(dir, "enunciado.txt"), dir, filepath.Join(dir, "Prueba1.txt")})
	require.NoError(t, err)
	assert.Len(t, files, 4)
	assert.Contains(t, files, filepath.Join(dir, "enunciado.txt"))

	_, err = cv.Inputs([]string{filepath.Join(dir, "missing.txt")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")
}

func TestConverterTarget(t *testing.T) {
	cv := testConverter(t, "DatosDZN")
	assert.Equal(t, filepath.Join("DatosDZN", "Prueba1.dzn"), cv.Target(filepath.Join("DatosProyecto", "Prueba1.txt")))

	cv.Beside = true
	assert.Equal(t, filepath.Join("DatosProyecto", "Prueba1.dzn"), cv.Target(filepath.Join("DatosProyecto", "Prueba1.txt")))

	cv = testConverter(t, "")
	assert.Equal(t, filepath.Join("a", "b.dzn"), cv.Target(filepath.Join("a", "b.txt")))
}

func TestConverterRun(t *testing.T) {
	dir := instanceDir(t)
	out := filepath.Join(t.TempDir(), "DatosDZN")
	cv := testConverter(t, out)
	cv.Validate = true

	results, err := cv.Run([]string{dir})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.False(t, results[0].Failed())
	assert.Equal(t, filepath.Join(out, "Prueba1.dzn"), results[0].Target)
	data, err := os.ReadFile(results[0].Target)
	require.NoError(t, err)
	assert.Equal(t, sampleDzn, string(data))

	assert.True(t, results[1].Failed())
	var mErr *MalformedInstanceError
	require.ErrorAs(t, results[1].Err, &mErr)
	assert.Equal(t, "p", mErr.Section)
	assert.Contains(t, results[1].Err.Error(), "Prueba2.txt")
	assert.NoFileExists(t, filepath.Join(out, "Prueba2.dzn"))

	assert.False(t, results[2].Failed())
	assert.FileExists(t, filepath.Join(out, "Prueba10.dzn"))
	assert.NoFileExists(t, filepath.Join(out, "enunciado.dzn"))
}

func TestConverterRunBeside(t *testing.T) {
	dir := instanceDir(t)
	cv := testConverter(t, filepath.Join(t.TempDir(), "unused"))
	cv.Beside = true

	results, err := cv.Run([]string{filepath.Join(dir, "sub")})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.FileExists(t, filepath.Join(dir, "sub", "Prueba3.dzn"))
}

func TestConvertFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ConvertFile(filepath.Join(dir, "nope.txt"), filepath.Join(dir, "nope.dzn"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	src := filepath.Join(dir, "bad.txt")
	writeFile(t, src, "")
	_, err = ConvertFile(src, filepath.Join(dir, "bad.dzn"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSection)
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Prueba10.out", "Prueba9.out", "Prueba9.json", "skip.out"} {
		writeFile(t, filepath.Join(dir, name), "")
	}

	files, err := ListFiles([]string{dir}, ".out", []string{"skip.out"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "Prueba9.out"), filepath.Join(dir, "Prueba10.out")}, files)

	files, err = ListFiles([]string{dir}, ".json", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "Prueba9.json")}, files)

	files, err = ListFiles(nil, ".out", nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestConverterRunRejectsSharedTargets(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a", "Prueba1.txt")
	second := filepath.Join(root, "b", "Prueba1.txt")
	writeFile(t, first, sampleInstance)
	writeFile(t, second, strings.Replace(sampleInstance, "10\n", "12\n", 1))
	out := filepath.Join(root, "DatosDZN")
	cv := testConverter(t, out)

	results, err := cv.Run([]string{filepath.Join(root, "a"), filepath.Join(root, "b")})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, first, results[0].Source)
	assert.False(t, results[0].Failed())
	assert.Equal(t, second, results[1].Source)
	assert.True(t, results[1].Failed())
	assert.ErrorIs(t, results[1].Err, ErrDuplicateTarget)
	assert.Contains(t, results[1].Err.Error(), first)

	data, err := os.ReadFile(filepath.Join(out, "Prueba1.dzn"))
	require.NoError(t, err)
	assert.Equal(t, sampleDzn, string(data))
}

func TestConverterRunRetriesTargetAfterFailure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "Prueba1.txt"), "broken\n")
	writeFile(t, filepath.Join(root, "b", "Prueba1.txt"), sampleInstance)
	cv := testConverter(t, filepath.Join(root, "DatosDZN"))

	results, err := cv.Run([]string{filepath.Join(root, "a"), filepath.Join(root, "b")})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.FileExists(t, filepath.Join(root, "DatosDZN", "Prueba1.dzn"))
}
