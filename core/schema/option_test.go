package schema

import (
	"errors"
	"testing"
)

type fixedIntner int

func (f fixedIntner) IntN(n int) int { return int(f) % n }

func TestOptionPicker(t *testing.T) {
	p := OptionPicker{Rand: fixedIntner(2)}

	opt, err := p.Option("todo", "")
	if err != nil {
		t.Fatalf("Option error: %v", err)
	}
	if opt.Name != "todo" || opt.Color != ColorBrown {
		t.Errorf("Option = %+v, want todo/brown", opt)
	}

	opt, err = p.Option("done", ColorGreen)
	if err != nil || opt.Color != ColorGreen {
		t.Errorf("Option with color = %+v, %v", opt, err)
	}

	if _, err := p.Option("bad", "teal"); err == nil {
		t.Error("expected error for out-of-palette color")
	} else if !errors.Is(err, ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}

	if _, err := p.Option(" ", ColorRed); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestNewOptionPicksFromPalette(t *testing.T) {
	for i := 0; i < 50; i++ {
		opt, err := NewOption("x", "")
		if err != nil {
			t.Fatalf("NewOption error: %v", err)
		}
		if !opt.Color.Valid() {
			t.Fatalf("NewOption picked %q, not in palette", opt.Color)
		}
	}
}

func TestOptions(t *testing.T) {
	opts, err := OptionPicker{Rand: fixedIntner(0)}.Options("a", "b")
	if err != nil {
		t.Fatalf("Options error: %v", err)
	}
	if len(opts) != 2 || opts[1].Name != "b" || opts[1].Color != ColorDefault {
		t.Errorf("Options = %+v", opts)
	}
}

func TestPaletteIsCopy(t *testing.T) {
	p := Palette()
	if len(p) != 10 {
		t.Fatalf("palette has %d colors, want 10", len(p))
	}
	p[0] = "teal"
	if Palette()[0] != ColorDefault {
		t.Error("Palette() exposes internal slice")
	}
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    []SelectOption
		wantErr bool
	}{
		{name: "nil", raw: nil, wantErr: true},
		{name: "empty list", raw: []any{}, wantErr: true},
		{name: "not a list", raw: map[string]any{"name": "a"}, wantErr: true},
		{name: "non-object entry", raw: []any{"a"}, wantErr: true},
		{name: "missing name", raw: []any{map[string]any{"color": "red"}}, wantErr: true},
		{name: "non-string color", raw: []any{map[string]any{"name": "a", "color": 3}}, wantErr: true},
		{
			name: "objects",
			raw:  []any{map[string]any{"name": "a"}, map[string]any{"name": "b", "color": "red"}},
			want: []SelectOption{{Name: "a"}, {Name: "b", Color: ColorRed}},
		},
		{
			name: "typed options",
			raw:  []SelectOption{{Name: "a", Color: ColorBlue}},
			want: []SelectOption{{Name: "a", Color: ColorBlue}},
		},
		{
			name: "map slice",
			raw:  []map[string]any{{"name": "a"}},
			want: []SelectOption{{Name: "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptions(tt.raw)
			if tt.wantErr {
				var se *SchemaError
				if !errors.As(err, &se) {
					t.Fatalf("ParseOptions(%v) = %v, want SchemaError", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOptions error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d options, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("option[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
