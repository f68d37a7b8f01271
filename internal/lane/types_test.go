package lane

import "testing"

func TestYesNoRoundTrip(t *testing.T) {
	for _, v := range []YesNo{Yes, No} {
		got, err := ParseYesNo(v.String())
		if err != nil {
			t.Fatalf("ParseYesNo(%q) error = %v", v.String(), err)
		}
		if got != v {
			t.Fatalf("ParseYesNo(%q) = %v, want %v", v.String(), got, v)
		}
	}
	if _, err := ParseYesNo("maybe"); err == nil {
		t.Fatal("expected error for unknown label")
	}
}

func TestSeasonRoundTrip(t *testing.T) {
	for _, season := range Seasons {
		got, err := ParseSeason(season.String())
		if err != nil {
			t.Fatalf("ParseSeason(%q) error = %v", season.String(), err)
		}
		if got != season {
			t.Fatalf("ParseSeason(%q) = %v, want %v", season.String(), got, season)
		}
	}
	if _, err := ParseSeason("Autumn"); err == nil {
		t.Fatal("expected error for unknown season")
	}
}

func TestSeasonWet(t *testing.T) {
	if Summer.Wet() {
		t.Fatal("summer should not be wet")
	}
	if !Winter.Wet() || !Rains.Wet() {
		t.Fatal("winter and rains should be wet")
	}
}

func TestYesNoOf(t *testing.T) {
	if YesNoOf(true) != Yes || YesNoOf(false) != No {
		t.Fatal("unexpected YesNoOf mapping")
	}
	if !Yes.Bool() || No.Bool() {
		t.Fatal("unexpected Bool mapping")
	}
}
