package offerwall

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/polkiloo/buxiq/internal/config"
	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
	"github.com/polkiloo/buxiq/internal/domain/model"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	walls := c.List()
	if len(walls) == 0 {
		t.Fatal("expected offerwalls")
	}
	for _, id := range []string{"cpx", "sads", "kiwi", "cheddar", "cashout", "bonus"} {
		if _, err := c.Build(id, "neo"); err != nil {
			t.Fatalf("expected %s to be present: %v", id, err)
		}
	}
}

func TestBuildSubstitutesUser(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		id   string
		user string
		want string
		kind model.LaunchKind
	}{
		{"kiwi", "neo", "https://www.kiwiwall.com/wall/ICKEzWAlZv8O6QOXSxFdfJ7jLfU6RUtl/neo", model.LaunchURL},
		{"sads", "neo", "https://offerwall.sushiads.com/surveywall?apiKey=67e76c74ca62f460071524&userId=neo", model.LaunchURL},
		{"cheddar", "neo", "https://revtoo.com/redirect?api_key=m7l0au6f6w8tzh0ghly11tur1oucce&offer_id=479&user_id=neo", model.LaunchSideEffect},
		{"chat", "neo", "https://bux-iq.netlify.app/chat.html", model.LaunchURL},
		{"CPX", "neo", "https://offers.cpx-research.com/index.php?app_id=26219&ext_user_id=neo&username=neo&subid_1=&subid_2", model.LaunchURL},
	}

	for _, tc := range cases {
		launch, err := c.Build(tc.id, tc.user)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.id, err)
		}
		if launch.URL != tc.want {
			t.Errorf("%s: got %q, want %q", tc.id, launch.URL, tc.want)
		}
		if launch.Kind != tc.kind {
			t.Errorf("%s: got kind %q, want %q", tc.id, launch.Kind, tc.kind)
		}
	}
}

func TestTrackedFlag(t *testing.T) {
	c, _ := Default()
	tracked := map[string]bool{}
	for _, w := range c.List() {
		tracked[w.ID] = w.Tracked
	}
	if !tracked["kiwi"] || !tracked["cheddar"] {
		t.Fatal("expected task offerwalls to be tracked")
	}
	if tracked["chat"] || tracked["cashout"] || tracked["bonus"] {
		t.Fatal("did not expect site pages to be tracked")
	}
}

func TestBuildUnknownOfferwall(t *testing.T) {
	c, _ := Default()
	if _, err := c.Build("nope", "neo"); !errors.Is(err, domainErrors.ErrUnknownOfferwall) {
		t.Fatalf("expected ErrUnknownOfferwall, got %v", err)
	}
}

func TestRenderEscapesByPosition(t *testing.T) {
	got := Render("https://x.test/wall/{user}?id={user}", "a b&c/d")
	want := "https://x.test/wall/a%20b&c%2Fd?id=a+b%26c%2Fd"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "offerwalls: []", "empty"},
		{"missing id", "offerwalls:\n  - name: x\n    template: https://x", "id is required"},
		{"missing template", "offerwalls:\n  - id: x", "template is required"},
		{"duplicate", "offerwalls:\n  - id: x\n    template: a\n  - id: X\n    template: b", "duplicate"},
		{"bad kind", "offerwalls:\n  - id: x\n    template: a\n    kind: popup", "unknown kind"},
		{"bad yaml", "offerwalls: [", "parsing"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q error, got %v", tc.want, err)
			}
		})
	}
}

func TestListReturnsCopy(t *testing.T) {
	c, _ := Default()
	walls := c.List()
	walls[0].Name = "changed"
	if c.List()[0].Name == "changed" {
		t.Fatal("expected catalog to be immutable through List")
	}
}

func TestNewCatalogLoadsOverride(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	c, err := newCatalog(catalogParams{Config: &config.Config{}, Logger: logger})
	if err != nil || c == nil {
		t.Fatalf("expected default catalog, got %v %v", c, err)
	}

	path := filepath.Join(t.TempDir(), "walls.yaml")
	if err := os.WriteFile(path, []byte("offerwalls:\n  - id: only\n    template: https://only.test/{user}\n"), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	c, err = newCatalog(catalogParams{Config: &config.Config{OfferwallCatalog: path}, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.List()) != 1 {
		t.Fatalf("expected single offerwall, got %d", len(c.List()))
	}

	if _, err := newCatalog(catalogParams{Config: &config.Config{OfferwallCatalog: filepath.Join(t.TempDir(), "missing.yaml")}, Logger: logger}); err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}
