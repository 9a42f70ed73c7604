package importer

import (
	"errors"
	"testing"

	mserrors "github.com/modscope/modscope/errors"
	"github.com/modscope/modscope/scope"
)

func isInvalidStatement(err error) bool {
	return errors.Is(err, &mserrors.Error{Phase: mserrors.PhaseParse, Kind: mserrors.KindInvalidStatement})
}

func TestParseStatement_NameForms(t *testing.T) {
	local := scope.NewNamespace()
	spec, err := parseStatement("utils", []string{"a", "mix=lerp"}, []Option{WithRename("cl", "clamp")}, placeHere, "", local)
	if err != nil {
		t.Fatal(err)
	}

	want := []NamePair{
		{Export: "a", Local: "a"},
		{Export: "lerp", Local: "mix"},
		{Export: "clamp", Local: "cl"},
	}
	if len(spec.Names) != len(want) {
		t.Fatalf("got %d pairs", len(spec.Names))
	}
	for i, p := range spec.Names {
		if p != want[i] {
			t.Errorf("pair %d = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestParseStatement_FailFast(t *testing.T) {
	local := scope.NewNamespace()

	tests := []struct {
		name  string
		token string
		names []string
		opts  []Option
		mode  placementMode
		dest  string
		local *scope.Namespace
	}{
		{"missing source", "", []string{"a"}, nil, placeHere, "", local},
		{"no names", "utils", nil, nil, placeHere, "", local},
		{"empty local", "utils", []string{"=b"}, nil, placeHere, "", local},
		{"empty export", "utils", []string{"a="}, nil, placeHere, "", local},
		{"reserved prefix local", "utils", []string{".into=b"}, nil, placeHere, "", local},
		{"reserved prefix export", "utils", []string{".hidden"}, nil, placeHere, "", local},
		{"nil caller scope", "utils", []string{"a"}, nil, placeHere, "", nil},
		{"dest option in here mode", "utils", []string{"a"}, []Option{WithDestination("x")}, placeHere, "", local},
		{"dest given twice", "utils", []string{"a"}, []Option{WithDestination("x")}, placeInto, "y", nil},
		{"empty dest", "utils", []string{"a"}, nil, placeInto, "", nil},
		{"empty rename local", "utils", nil, []Option{WithRename("", "b")}, placeHere, "", local},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseStatement(tt.token, tt.names, tt.opts, tt.mode, tt.dest, tt.local)
			if !isInvalidStatement(err) {
				t.Errorf("err = %v, want invalid statement", err)
			}
		})
	}
}

func TestCheckDuplicateLocals(t *testing.T) {
	err := checkDuplicateLocals([]NamePair{
		{Export: "a", Local: "x"},
		{Export: "b", Local: "x"},
	})
	var dup *mserrors.Error
	if !errors.As(err, &dup) || dup.Kind != mserrors.KindDuplicateLocal {
		t.Errorf("err = %v, want duplicate local", err)
	}
	if dup.Name != "x" {
		t.Errorf("Name = %q", dup.Name)
	}

	// Same export requested twice under one local is allowed.
	if err := checkDuplicateLocals([]NamePair{
		{Export: "a", Local: "x"},
		{Export: "a", Local: "x"},
	}); err != nil {
		t.Errorf("repeated identical pair rejected: %v", err)
	}
}
