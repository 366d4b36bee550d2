package entities

import "testing"

func TestTelegramUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user TelegramUser
		want string
	}{
		{"title wins", TelegramUser{ID: 1, Title: "My Group", FirstName: "A", Username: "x"}, "My Group"},
		{"first and last", TelegramUser{ID: 1, FirstName: "Jane", LastName: "Doe", Username: "jd"}, "Jane Doe"},
		{"first only", TelegramUser{ID: 1, FirstName: "Jane", Username: "jd"}, "Jane"},
		{"last only", TelegramUser{ID: 1, LastName: "Doe", Username: "jd"}, "Doe"},
		{"username fallback", TelegramUser{ID: 1, Username: "jd"}, "@jd"},
		{"id fallback", TelegramUser{ID: 42}, "id:42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInviteLinkDisplayTitle(t *testing.T) {
	l := InviteLink{ChatID: 7, ChatTitle: "Alpha"}
	if got := l.DisplayTitle(); got != "Alpha" {
		t.Errorf("Expected title, got: %q", got)
	}

	l.ChatTitle = ""
	if got := l.DisplayTitle(); got != "id:7" {
		t.Errorf("Expected id fallback, got: %q", got)
	}
}

func TestInviteLinkPeer(t *testing.T) {
	l := InviteLink{ChatID: 7, AccessHash: 99, ChatType: ChatTypeChannel}
	p := l.Peer()
	if p.ChatID != 7 || p.AccessHash != 99 || p.Type != ChatTypeChannel {
		t.Errorf("Unexpected peer: %+v", p)
	}
}
