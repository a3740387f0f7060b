package target

import (
	"math"
	"testing"
)

func TestParse_RDWithTag(t *testing.T) {
	tagged, ok, err := Parse("rd/14h23m27s,-29d/MySource")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !ok {
		t.Fatal("Parse reported not a coordinate specifier")
	}
	if tagged.Label != "MySource" {
		t.Errorf("Label = %q, want %q", tagged.Label, "MySource")
	}

	// Position must equal parsing the same coordinates without the tag.
	plain, ok, err := Parse("rd/14h23m27s,-29d")
	if err != nil || !ok {
		t.Fatalf("Parse(plain) ok=%v error: %v", ok, err)
	}
	if tagged.RA != plain.RA || tagged.Dec != plain.Dec {
		t.Errorf("tagged position (%v, %v) != plain position (%v, %v)",
			tagged.RA, tagged.Dec, plain.RA, plain.Dec)
	}

	// 14h23m27s = 215.8625 degrees.
	if got := plain.RA.Deg(); math.Abs(got-215.8625) > 1e-9 {
		t.Errorf("RA = %v°, want 215.8625°", got)
	}
	if got := plain.Dec.Deg(); math.Abs(got-(-29)) > 1e-9 {
		t.Errorf("Dec = %v°, want -29°", got)
	}
}

func TestParse_RDForms(t *testing.T) {
	tests := []struct {
		spec    string
		wantRA  float64
		wantDec float64
	}{
		{"rd/215.8625,-29.0", 215.8625, -29},
		{"rd/14:23:27,-29:00:00", 215.8625, -29},
		{"rd/14h23m27s,-29d0m0s", 215.8625, -29},
		{"rd/0h0m0s,+90d", 0, 90},
		{"rd/12h,-45d30m", 180, -45.5},
	}

	for _, tc := range tests {
		t.Run(tc.spec, func(t *testing.T) {
			tgt, ok, err := Parse(tc.spec)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if !ok {
				t.Fatal("not recognized as coordinate specifier")
			}
			if got := tgt.RA.Deg(); math.Abs(got-tc.wantRA) > 1e-9 {
				t.Errorf("RA = %v°, want %v°", got, tc.wantRA)
			}
			if got := tgt.Dec.Deg(); math.Abs(got-tc.wantDec) > 1e-9 {
				t.Errorf("Dec = %v°, want %v°", got, tc.wantDec)
			}
		})
	}
}

func TestParse_LBLabelIsFullSpecifier(t *testing.T) {
	tgt, ok, err := Parse("lb/10d,5d")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !ok {
		t.Fatal("not recognized as coordinate specifier")
	}
	if tgt.Label != "lb/10d,5d" {
		t.Errorf("Label = %q, want the original specifier", tgt.Label)
	}
}

func TestParse_GalacticCenter(t *testing.T) {
	// l=0, b=0 is the galactic center: RA ~266.40°, Dec ~-28.94° (J2000).
	tgt, ok, err := Parse("lb/0,0")
	if err != nil || !ok {
		t.Fatalf("Parse ok=%v error: %v", ok, err)
	}
	if got := tgt.RA.Deg(); math.Abs(got-266.40) > 0.3 {
		t.Errorf("RA = %v°, want ~266.40°", got)
	}
	if got := tgt.Dec.Deg(); math.Abs(got-(-28.94)) > 0.3 {
		t.Errorf("Dec = %v°, want ~-28.94°", got)
	}
}

func TestParse_BareNameIsNotCoordinate(t *testing.T) {
	for _, spec := range []string{"Crab", "PKS 2155-304", "rdx", "lbj"} {
		_, ok, err := Parse(spec)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", spec, err)
		}
		if ok {
			t.Errorf("Parse(%q) claimed coordinate specifier", spec)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []string{
		"rd/14h23m27s",            // missing dec
		"rd/14h23m27s,-29d,5",     // too many fields
		"rd/xx,-29d",              // junk RA
		"rd/14h23m27s,-99d",       // dec out of range
		"rd/25h,-29d",             // RA hours out of range
		"rd/400.0,-29d",           // RA degrees out of range
		"rd/14h23m27s,-29d/",      // empty tag
		"lb/10d",                  // missing lat
		"lb/10d,95d",              // lat out of range
		"lb/,5d",                  // empty lon
		"rd/14h23m27sXX,-29d",     // trailing junk
	}

	for _, spec := range tests {
		t.Run(spec, func(t *testing.T) {
			_, ok, err := Parse(spec)
			if !ok {
				t.Fatal("not recognized as coordinate specifier")
			}
			if err == nil {
				t.Errorf("Parse(%q) succeeded, want error", spec)
			}
		})
	}
}

func TestCoordString(t *testing.T) {
	tgt, _, err := Parse("rd/12h,-45d")
	if err != nil {
		t.Fatal(err)
	}
	s := tgt.CoordString()
	if s == "" {
		t.Fatal("CoordString returned empty string")
	}
}
