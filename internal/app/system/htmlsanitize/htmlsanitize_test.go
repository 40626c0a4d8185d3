package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/flickhub/internal/app/system/htmlsanitize"
)

func TestText_Empty(t *testing.T) {
	if got := htmlsanitize.Text(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestText_PlainText(t *testing.T) {
	if got := htmlsanitize.Text("Watchlist"); got != "Watchlist" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestText_StripsTags(t *testing.T) {
	if got := htmlsanitize.Text("<b>Best</b> of 2024"); got != "Best of 2024" {
		t.Errorf("expected tags stripped, got %q", got)
	}
}

func TestText_KeepsAmpersand(t *testing.T) {
	if got := htmlsanitize.Text("Tom & Jerry"); got != "Tom & Jerry" {
		t.Errorf("expected ampersand preserved, got %q", got)
	}
}

func TestText_OnlyMarkupBecomesEmpty(t *testing.T) {
	if got := htmlsanitize.Text("<br/><hr>"); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}
