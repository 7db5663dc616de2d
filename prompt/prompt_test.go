package prompt

import (
	"strings"
	"testing"
)

func TestBuildCustomWins(t *testing.T) {
	custom := "list every message verbatim"
	for _, tmpl := range []Template{Single, Multiple, Video, Custom, "bogus"} {
		if got := Build(tmpl, custom); got != custom {
			t.Errorf("Build(%q, custom) = %q, want custom text", tmpl, got)
		}
	}
}

func TestBuildTemplatesDiffer(t *testing.T) {
	single, multiple, video := Build(Single, ""), Build(Multiple, ""), Build(Video, "")
	if single == multiple || multiple == video || single == video {
		t.Fatal("expected distinct template texts")
	}
	for name, text := range map[string]string{"single": single, "multiple": multiple, "video": video} {
		if !strings.Contains(text, "user_messages") || !strings.Contains(text, "assistant_messages") {
			t.Errorf("%s template does not name the output fields", name)
		}
	}
	if !strings.Contains(video, "user_actions") {
		t.Error("video template should request user_actions")
	}
}

func TestBuildFallsBackToSingle(t *testing.T) {
	if Build("bogus", "") != Build(Single, "") {
		t.Error("unknown template should fall back to single")
	}
	if Build(Custom, "") != Build(Single, "") {
		t.Error("custom without text should fall back to single")
	}
}

func TestParseTemplate(t *testing.T) {
	tests := map[string]Template{
		"single": Single, "MULTIPLE": Multiple, " video ": Video,
		"custom": Custom, "": Single, "chat": Single,
	}
	for in, want := range tests {
		if got := ParseTemplate(in); got != want {
			t.Errorf("ParseTemplate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWithActions(t *testing.T) {
	base := Build(Single, "")
	extended := WithActions(base)
	if !strings.HasPrefix(extended, base) || !strings.Contains(extended, "user_actions") {
		t.Errorf("expected actions suffix appended, got %q", extended)
	}
	video := Build(Video, "")
	if WithActions(video) != video {
		t.Error("WithActions should not duplicate an existing user_actions request")
	}
}

func TestSystemInstructionLayout(t *testing.T) {
	for _, want := range []string{"右侧", "左侧", "推荐追问", "JSON"} {
		if !strings.Contains(SystemInstruction, want) {
			t.Errorf("system instruction missing %q", want)
		}
	}
}
