package formwizard

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/question"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func TestLoadSession_Sample(t *testing.T) {
	loader := NewLoader(question.WithFileSystem(SampleFS()))
	session, err := LoadSession(context.Background(), SampleSource(), wizard.WithLoader(loader))
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if session.Status() != wizard.StatusReady {
		t.Fatalf("expected ready session, got %q", session.Status())
	}

	var ids []string
	for _, q := range session.Questions() {
		ids = append(ids, q.ID)
	}
	want := []string{"about-you", "mailing", "wrap-up"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("question ids mismatch (-want +got):\n%s", diff)
	}
	if got := session.CurrentID(); got != "about-you" {
		t.Fatalf("expected first page active, got %q", got)
	}
}

func TestLoadSession_FailureKeepsSession(t *testing.T) {
	src := question.SourceFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	session, err := LoadSession(context.Background(), src)
	if err == nil {
		t.Fatalf("expected load error")
	}
	if session == nil {
		t.Fatalf("expected session despite load failure")
	}
	if session.ErrorMessage() != wizard.LoadErrorMessage {
		t.Fatalf("unexpected error message %q", session.ErrorMessage())
	}
}

func TestLoadSession_RequiresSource(t *testing.T) {
	if _, err := LoadSession(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}

func TestNewSession_Idle(t *testing.T) {
	session := NewSession()
	if session.Status() != wizard.StatusIdle {
		t.Fatalf("expected idle session, got %q", session.Status())
	}
}

func TestEmbeddedFilesystems(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/page.tmpl"); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
	if _, err := fs.ReadFile(EmbeddedAssets(), "formwizard.css"); err != nil {
		t.Fatalf("expected stylesheet: %v", err)
	}
	if _, err := fs.ReadFile(SampleFS(), SampleName); err != nil {
		t.Fatalf("expected sample document: %v", err)
	}
}
