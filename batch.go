package minext

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ErrDuplicateTarget fails a file whose data file was already produced from
// another input in the same run.
var ErrDuplicateTarget = errors.New("both map to the same data file")

// Conversion is the outcome for one instance file. Each file succeeds or fails
// on its own.
type Conversion struct {
	Source   string
	Target   string
	Findings []string
	Err      error
}

func (c Conversion) Failed() bool {
	return c.Err != nil || len(c.Findings) > 0
}

// Converter turns instance files into data files.
type Converter struct {
	Config Config
	// Beside writes each data file next to its instance instead of Config.OutputDir.
	Beside bool
	// Validate runs ValidateDzn over every generated file.
	Validate bool
	Logger   *zap.Logger
}

func NewConverter(cfg Config, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{Config: cfg, Logger: logger}
}

// Inputs expands directories into their instance files, leaving out the skip
// list, and returns everything in natural order. Files named explicitly are
// always kept.
func (cv *Converter) Inputs(paths []string) ([]string, error) {
	return ListFiles(paths, cv.Config.InstanceExt, cv.Config.Skip)
}

// ListFiles expands every directory in paths into the regular files with
// extension ext whose names are not in skip. Plain files are kept as given.
// The result is deduplicated and naturally sorted.
func ListFiles(paths []string, ext string, skip []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", p)
		}
		if !fi.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s", p)
		}
		names := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
			name := e.Name()
			keep := !e.IsDir() && filepath.Ext(name) == ext && !lo.Contains(skip, name)
			return filepath.Join(p, name), keep
		})
		files = append(files, names...)
	}
	files = lo.Uniq(files)
	SortNatural(files)
	return files, nil
}

// Target is where the data file for src is written.
func (cv *Converter) Target(src string) string {
	base := filepath.Base(src)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + cv.Config.DznExt
	if cv.Beside || cv.Config.OutputDir == "" {
		return filepath.Join(filepath.Dir(src), name)
	}
	return filepath.Join(cv.Config.OutputDir, name)
}

// Run converts every file in paths. A failing file is logged and reported in
// its Conversion; the remaining files are still processed. When two inputs
// share a target, the later one fails instead of overwriting the first.
func (cv *Converter) Run(paths []string) ([]Conversion, error) {
	files, err := cv.Inputs(paths)
	if err != nil {
		return nil, err
	}
	results := make([]Conversion, 0, len(files))
	written := make(map[string]string, len(files))
	for _, src := range files {
		var res Conversion
		if prev, dup := written[cv.Target(src)]; dup {
			res = Conversion{Source: src, Target: cv.Target(src)}
			res.Err = errors.Wrapf(ErrDuplicateTarget, "%s and %s", prev, src)
		} else if res = cv.convert(src); res.Err == nil {
			written[res.Target] = src
		}
		switch {
		case res.Err != nil:
			cv.Logger.Error("conversion failed", zap.String("file", src), zap.Error(res.Err))
		case len(res.Findings) > 0:
			cv.Logger.Warn("generated file is incomplete", zap.String("file", res.Target), zap.Strings("findings", res.Findings))
		default:
			cv.Logger.Info("generated", zap.String("file", src), zap.String("target", res.Target))
		}
		results = append(results, res)
	}
	return results, nil
}

func (cv *Converter) convert(src string) Conversion {
	res := Conversion{Source: src, Target: cv.Target(src)}
	text, err := ConvertFile(src, res.Target)
	if err != nil {
		res.Err = err
		return res
	}
	if cv.Validate {
		_, res.Findings = ValidateDzn(text)
	}
	return res
}

// ConvertFile parses the instance at src and writes its data file to dst,
// creating the parent directory if needed. The written text is returned.
func ConvertFile(src, dst string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", src)
	}
	inst, err := ParseInstance(string(data))
	if err != nil {
		return "", errors.Wrapf(err, "parsing %s", src)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", errors.Wrapf(err, "creating %s", filepath.Dir(dst))
	}
	text := EncodeDzn(inst)
	if err := os.WriteFile(dst, []byte(text), 0644); err != nil {
		return "", errors.Wrapf(err, "writing %s", dst)
	}
	return text, nil
}
