package driver

import "testing"

func TestDerivedIdentity(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "username", got: Username(42), want: "user42"},
		{name: "email", got: Email(42), want: "user42@example.com"},
		{name: "session token", got: SessionToken(42), want: "token42"},
		{name: "rss token", got: RssToken(42), want: "rsstoken42"},
		{name: "mailing list token", got: MailingListToken(42), want: "mtok42"},
		{name: "keystore key", got: keystoreKey(42, "stories_submitted"), want: "user:42:stories_submitted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
