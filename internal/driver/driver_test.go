package driver

import "testing"

func TestRequireActing(t *testing.T) {
	uid := int64(3)

	got, err := requireActing(&uid, KindSubmit)
	if err != nil {
		t.Fatalf("requireActing() error = %v", err)
	}
	if got != uid {
		t.Errorf("requireActing() = %d, want %d", got, uid)
	}

	for _, kind := range []Kind{KindLogin, KindStoryVote, KindCommentVote, KindSubmit, KindComment} {
		if _, err := requireActing(nil, kind); err == nil {
			t.Errorf("%s: expected error for anonymous actor", kind)
		}
	}
}
