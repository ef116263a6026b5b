package property

import "testing"

func TestBrushCSSKeepsAlphaInUnitRange(t *testing.T) {
	b := RGBA(1, 0, 0, 0.5)
	got := b.CSS()
	want := "rgba(255, 0, 0, 0.5)"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
