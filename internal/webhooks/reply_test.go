package webhooks

import "testing"

func TestReplyFor(t *testing.T) {
	cases := []struct {
		messageType, text, want string
	}{
		{"text", "hi", `You said: "hi"`},
		{"text", "", "I received your message!"},
		{"image", "", "I received your image! 📷"},
		{"audio", "", "I received your audio message! 🎵"},
		{"video", "", "I received your video! 🎬"},
		{"document", "", "I received your document! 📄"},
		{"location", "", "I received your message!"},
		{"", "", "I received your message!"},
	}
	for _, tc := range cases {
		if got := ReplyFor(tc.messageType, tc.text); got != tc.want {
			t.Errorf("ReplyFor(%q, %q) = %q, want %q", tc.messageType, tc.text, got, tc.want)
		}
	}
}

func TestParseEventType(t *testing.T) {
	if et, ok := ParseEventType("message.received"); !ok || et != EventMessageReceived {
		t.Fatalf("message.received not recognized: %v %v", et, ok)
	}
	if _, ok := ParseEventType("message.reacted"); ok {
		t.Fatal("unknown event type reported as known")
	}
	// The control type is not part of the dispatchable vocabulary.
	if _, ok := ParseEventType("sendseven_verification"); ok {
		t.Fatal("verification control type reported as dispatchable")
	}
}
