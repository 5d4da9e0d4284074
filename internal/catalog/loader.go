package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

//go:embed default.cue
var defaultCUE string

// Error code constants for catalogue loading.
const (
	ErrCodeNotFound    = "C001" // catalogue directory not found
	ErrCodeLoadFailed  = "C002" // CUE load failed
	ErrCodeBuildFailed = "C003" // CUE build failed
	ErrCodeBadType     = "C004" // a splitter entry violates the schema
)

// LoadError is an error raised while loading a catalogue, with the CUE
// source position when one is available.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Default returns the embedded catalogue. The embedded source is part of
// the binary, so a failure here is a programming error and panics.
func Default() *Catalog {
	ctx := cuecontext.New()
	v := ctx.CompileString(defaultCUE, cue.Filename("default.cue"))
	c, err := fromValue(v)
	if err != nil {
		panic(fmt.Sprintf("embedded catalogue invalid: %v", err))
	}
	return c
}

// LoadDir builds a catalogue from the .cue files in dir. The files must
// declare a top-level "splitter" struct; the schema in each file governs
// its entries.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalogue directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("accessing catalogue directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir, Package: "_"})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	v := ctx.BuildInstance(inst)
	return fromValue(v)
}

// fromValue extracts splitter types from a built CUE value.
func fromValue(v cue.Value) (*Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	splitters := v.LookupPath(cue.ParsePath("splitter"))
	if !splitters.Exists() {
		return nil, &LoadError{Code: ErrCodeBadType, Message: "no splitter catalogue found", Pos: v.Pos()}
	}

	iter, err := splitters.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadType, Message: fmt.Sprintf("iterating splitter types: %v", err)}
	}

	var types []SplitterType
	for iter.Next() {
		t, terr := parseType(iter.Label(), iter.Value())
		if terr != nil {
			return nil, terr
		}
		types = append(types, t)
	}
	if len(types) == 0 {
		return nil, &LoadError{Code: ErrCodeBadType, Message: "splitter catalogue is empty"}
	}

	c, err := newCatalog(types)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadType, Message: err.Error()}
	}
	return c, nil
}

func parseType(name string, v cue.Value) (SplitterType, error) {
	if name == "" {
		return SplitterType{}, &LoadError{Code: ErrCodeBadType, Message: "splitter type with empty name", Pos: v.Pos()}
	}

	ratioVal := v.LookupPath(cue.ParsePath("ratio"))
	if !ratioVal.Exists() {
		return SplitterType{}, &LoadError{Code: ErrCodeBadType, Message: fmt.Sprintf("splitter %q: ratio is required", name), Pos: v.Pos()}
	}
	ratio, err := ratioVal.String()
	if err != nil {
		return SplitterType{}, &LoadError{Code: ErrCodeBadType, Message: fmt.Sprintf("splitter %q: %v", name, err), Pos: ratioVal.Pos()}
	}

	lossVal := v.LookupPath(cue.ParsePath("loss"))
	if !lossVal.Exists() {
		return SplitterType{}, &LoadError{Code: ErrCodeBadType, Message: fmt.Sprintf("splitter %q: loss is required", name), Pos: v.Pos()}
	}
	lossDB, err := lossVal.Float64()
	if err != nil {
		return SplitterType{}, &LoadError{Code: ErrCodeBadType, Message: fmt.Sprintf("splitter %q: %v", name, err), Pos: lossVal.Pos()}
	}
	if lossDB < 0 {
		return SplitterType{}, &LoadError{Code: ErrCodeBadType, Message: fmt.Sprintf("splitter %q: loss must be >= 0", name), Pos: lossVal.Pos()}
	}

	return SplitterType{Name: name, Ratio: ratio, Loss: lossDB}, nil
}
