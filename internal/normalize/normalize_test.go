package normalize_test

import (
	"errors"
	"testing"

	"go-fb-followers/internal/model"
	"go-fb-followers/internal/normalize"
)

func TestRecord_JohnDoeScenario(t *testing.T) {
	raw := model.Raw{
		"id":                " 123 ",
		"url":               "facebook.com/john.doe.123?ref=bookmarks",
		"name":              "John Doe",
		"gender":            "male",
		"friendship_status": "following",
		"image":             "https://example.com/p.jpg",
		"subtitle_text":     " New   York ",
	}
	res := normalize.Record(raw, 0)
	if !res.Accepted {
		t.Fatalf("expected accepted, got rejection %v", res.Rejection.Reason)
	}
	f := res.Follower
	want := model.Follower{
		ID:               "123",
		Image:            "https://example.com/p.jpg",
		Title:            "John Doe",
		SubtitleText:     "New York",
		URL:              "https://www.facebook.com/john.doe.123",
		FriendshipStatus: model.StatusFollowing,
		Name:             "John Doe",
		ShortName:        "John",
	}
	if f != want {
		t.Fatalf("got %+v\nwant %+v", f, want)
	}
}

func TestRecord_MobileURL(t *testing.T) {
	res := normalize.Record(model.Raw{"name": "Bob", "url": "http://m.facebook.com/bob"}, 0)
	if res.Follower.URL != "https://www.facebook.com/bob" {
		t.Fatalf("url=%q", res.Follower.URL)
	}
	if res.Follower.ShortName != "Bob" || res.Follower.Title != "Bob" {
		t.Fatalf("derived fields wrong: %+v", res.Follower)
	}
	if res.Follower.FriendshipStatus != model.StatusUnknown {
		t.Fatalf("status=%q want UNKNOWN", res.Follower.FriendshipStatus)
	}
}

func TestRecord_ExplicitDerivedFieldsWin(t *testing.T) {
	res := normalize.Record(model.Raw{
		"name":       "  Jane   Q  Public ",
		"short_name": " JQ ",
		"title":      "Dr.  Public",
	}, 0)
	f := res.Follower
	if f.Name != "Jane Q Public" || f.ShortName != "JQ" || f.Title != "Dr. Public" {
		t.Fatalf("unexpected %+v", f)
	}
	// 全空白的显式值视为未提供
	res = normalize.Record(model.Raw{"name": "Jane Public", "short_name": "  ", "title": "\t"}, 0)
	if res.Follower.ShortName != "Jane" || res.Follower.Title != "Jane Public" {
		t.Fatalf("blank explicit values should derive from name: %+v", res.Follower)
	}
}

func TestRecord_RejectsMissingName(t *testing.T) {
	for i, raw := range []model.Raw{
		{},
		{"name": nil},
		{"name": ""},
		{"name": "   \n"},
		{"title": "Only Title"},
	} {
		res := normalize.Record(raw, i)
		if res.Accepted {
			t.Fatalf("case %d: expected rejection, got %+v", i, res.Follower)
		}
		if !errors.Is(res.Rejection.Reason, normalize.ErrMissingName) || res.Rejection.Index != i {
			t.Fatalf("case %d: rejection=%+v", i, res.Rejection)
		}
	}
}

func TestRecord_FriendshipStatus(t *testing.T) {
	cases := map[any]model.FriendshipStatus{
		nil:             model.StatusUnknown,
		"":              model.StatusUnknown,
		"blocked":       model.StatusUnknown,
		" can_request ": model.StatusCanRequest,
		"Friend":        model.StatusFriend,
		"FOLLOWING":     model.StatusFollowing,
		"request_sent":  model.StatusRequestSent,
		"unknown":       model.StatusUnknown,
		42:              model.StatusUnknown,
	}
	for in, want := range cases {
		res := normalize.Record(model.Raw{"name": "X", "friendship_status": in}, 0)
		if got := res.Follower.FriendshipStatus; got != want {
			t.Fatalf("status(%#v)=%q want %q", in, got, want)
		}
	}
}

func TestRecord_Gender(t *testing.T) {
	cases := map[any]model.Gender{
		nil:        "",
		"":         "",
		"MALE":     model.GenderMale,
		" FEMALE ": model.GenderFemale,
		"OTHER":    model.GenderOther,
		"male":     "",
		"Female":   "",
		"X":        "",
		1:          "",
	}
	for in, want := range cases {
		res := normalize.Record(model.Raw{"name": "X", "gender": in}, 0)
		if !res.Accepted {
			t.Fatalf("gender %#v must never reject the record", in)
		}
		if got := res.Follower.Gender; got != want {
			t.Fatalf("gender(%#v)=%q want %q", in, got, want)
		}
	}
}

func TestNormalize_OrderAndDrops(t *testing.T) {
	raws := []model.Raw{
		{"id": "1001", "name": "Alice Example", "url": "https://facebook.com/alice.example", "gender": "FEMALE"},
		{"id": "x", "name": "  "},
		{"id": "1002", "name": "Bob Sample", "url": "http://m.facebook.com/bob.sample", "subtitle_text": nil},
		{"id": "y"},
		{"id": "1003", "name": "Carol"},
	}
	got, rejected := normalize.NormalizeAll(raws)
	if len(got) != 3 {
		t.Fatalf("len=%d want=3", len(got))
	}
	for i, id := range []string{"1001", "1002", "1003"} {
		if got[i].ID != id {
			t.Fatalf("order broken at %d: %q", i, got[i].ID)
		}
	}
	if len(rejected) != 2 || rejected[0].Index != 1 || rejected[1].Index != 3 {
		t.Fatalf("rejected=%+v", rejected)
	}
	if got[1].URL != "https://www.facebook.com/bob.sample" || got[1].SubtitleText != "" {
		t.Fatalf("bob=%+v", got[1])
	}
	if n := len(normalize.Normalize(raws)); n != 3 {
		t.Fatalf("Normalize len=%d", n)
	}
	if n := len(normalize.Normalize(nil)); n != 0 {
		t.Fatalf("empty input len=%d", n)
	}
}
