package draw

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "blue", want: color.RGBA{B: 255, A: 255}},
		{in: "  White ", want: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{in: "#f00", want: color.RGBA{R: 255, A: 255}},
		{in: "#f008", want: color.RGBA{R: 255, A: 0x88}},
		{in: "00ff00", want: color.RGBA{G: 255, A: 255}},
		{in: "#11223344", want: color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}},
		{in: "rgb(180, 0, 100)", want: color.RGBA{R: 180, B: 100, A: 255}},
		{in: "RGBA(1,2,3,128)", want: color.RGBA{R: 1, G: 2, B: 3, A: 128}},
		{in: "rgba(1,2,3,1.0)", want: color.RGBA{R: 1, G: 2, B: 3, A: 255}},
		{in: "", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "#ggg", wantErr: true},
		{in: "rgb(1,2)", wantErr: true},
		{in: "rgb(1,2,300)", wantErr: true},
		{in: "rgb(1,2,3", wantErr: true},
		{in: "notacolor", wantErr: true},
		{in: "aqua", want: color.RGBA{G: 255, B: 255, A: 255}},
		{in: "Fuchsia", want: color.RGBA{R: 255, B: 255, A: 255}},
		{in: "forestgreen", want: color.RGBA{R: 34, G: 139, B: 34, A: 255}},
		{in: "darkorange", want: color.RGBA{R: 255, G: 140, A: 255}},
		{in: "indigo", want: color.RGBA{R: 75, B: 130, A: 255}},
		{in: "saffron", want: color.RGBA{R: 244, G: 196, B: 48, A: 255}},
		{in: "transparent", want: color.RGBA{}},
		{in: "bed", wantErr: true},
		{in: "fee", wantErr: true},
		{in: "#bed", want: color.RGBA{R: 0xbb, G: 0xee, B: 0xdd, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMustParseColorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseColor did not panic")
		}
	}()
	MustParseColor("nope")
}

func TestRGBA(t *testing.T) {
	if got := RGBA(color.White); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("RGBA(White) = %v", got)
	}
	if got := RGBA(nil); got != (color.RGBA{}) {
		t.Errorf("RGBA(nil) = %v", got)
	}
}

func TestLookupColor(t *testing.T) {
	tests := []struct {
		name string
		want color.RGBA
		ok   bool
	}{
		{"aqua", color.RGBA{G: 255, B: 255, A: 255}, true},
		{" DarkOrange ", color.RGBA{R: 255, G: 140, A: 255}, true},
		{"saffron", color.RGBA{R: 244, G: 196, B: 48, A: 255}, true},
		{"#fff", color.RGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupColor(tt.name)
			if ok != tt.ok || got != tt.want {
				t.Errorf("LookupColor(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}
