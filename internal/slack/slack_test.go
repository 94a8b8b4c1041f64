package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	slackapi "github.com/slack-go/slack"
)

func newTestPoster(t *testing.T, handler http.Handler) *Poster {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New("test-token", slackapi.OptionAPIURL(server.URL+"/"))
}

func usersListHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users.list" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"ok":true,"members":[{"id":"U123","name":"alice"},{"id":"U456","name":"bob"}]}`)
	})
}

func TestResolveTarget_ChannelVerbatim(t *testing.T) {
	p := newTestPoster(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("channel targets must not hit the API, got %s", r.URL.Path)
	}))

	got, err := p.ResolveTarget(context.Background(), "#general")
	if err != nil {
		t.Fatalf("ResolveTarget() error = %v", err)
	}
	if got != "#general" {
		t.Errorf("ResolveTarget(#general) = %q, want %q", got, "#general")
	}
}

func TestResolveTarget_Username(t *testing.T) {
	for _, target := range []string{"@alice", "alice"} {
		p := newTestPoster(t, usersListHandler(t))

		got, err := p.ResolveTarget(context.Background(), target)
		if err != nil {
			t.Fatalf("ResolveTarget(%q) error = %v", target, err)
		}
		if got != "U123" {
			t.Errorf("ResolveTarget(%q) = %q, want %q", target, got, "U123")
		}
	}
}

func TestResolveTarget_NoMatch(t *testing.T) {
	p := newTestPoster(t, usersListHandler(t))

	_, err := p.ResolveTarget(context.Background(), "@carol")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ResolveTarget() error = %v, want ErrUserNotFound", err)
	}
	if !strings.Contains(err.Error(), "@carol") {
		t.Errorf("error %q does not name the original input", err)
	}
}

func TestPostRecap_ThreadsDetails(t *testing.T) {
	var calls int
	var threadTS, unfurl string
	var hadBlocks bool

	p := newTestPoster(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat.postMessage" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		r.ParseForm()
		calls++
		switch calls {
		case 1:
			if r.FormValue("text") != "Daily PR Summary: August 30, 2026 to August 31, 2026" {
				t.Errorf("header text = %q", r.FormValue("text"))
			}
			fmt.Fprint(w, `{"ok":true,"channel":"C1","ts":"111.222"}`)
		case 2:
			threadTS = r.FormValue("thread_ts")
			unfurl = r.FormValue("unfurl_links")
			hadBlocks = r.FormValue("blocks") != ""
			fmt.Fprint(w, `{"ok":true,"channel":"C1","ts":"111.333"}`)
		}
	}))

	blocks := []slackapi.Block{
		slackapi.NewHeaderBlock(slackapi.NewTextBlockObject(slackapi.PlainTextType, "PR Details", false, false)),
	}
	err := p.PostRecap(context.Background(), "#general",
		"Daily PR Summary: August 30, 2026 to August 31, 2026", blocks, "fallback")
	if err != nil {
		t.Fatalf("PostRecap() error = %v", err)
	}

	if calls != 2 {
		t.Fatalf("made %d postMessage calls, want 2", calls)
	}
	if threadTS != "111.222" {
		t.Errorf("thread_ts = %q, want the header ts", threadTS)
	}
	if unfurl != "false" {
		t.Errorf("unfurl_links = %q, want %q", unfurl, "false")
	}
	if !hadBlocks {
		t.Error("detail message posted without blocks")
	}
}

func TestPostRecap_ErrorGuidance(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"not_in_channel", "invite"},
		{"channel_not_found", "check the channel name"},
	}

	for _, tt := range tests {
		p := newTestPoster(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"ok":false,"error":"%s"}`, tt.code)
		}))

		err := p.PostRecap(context.Background(), "#general", "header", nil, "fallback")
		if err == nil {
			t.Fatalf("PostRecap() expected error for %s, got nil", tt.code)
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("error for %s = %q, want it to contain %q", tt.code, err, tt.want)
		}
	}
}
