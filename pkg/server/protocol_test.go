package server

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fzzzy/mumulib/internal/errors"
	"github.com/fzzzy/mumulib/pkg/document"
	"github.com/fzzzy/mumulib/pkg/vdom"
	"github.com/google/go-cmp/cmp"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *document.Event
		wantErr bool
	}{
		{
			name: "change",
			raw:  `{"type":"change","hid":"h3","value":"Jane"}`,
			want: &document.Event{Type: "change", HID: "h3", Value: "Jane"},
		},
		{
			name: "checkbox",
			raw:  `{"type":"change","hid":"h4","value":"on","checked":true}`,
			want: &document.Event{Type: "change", HID: "h4", Value: "on", Checked: true},
		},
		{
			name: "close",
			raw:  `{"type":"close","hid":"h9","returnValue":"cancel"}`,
			want: &document.Event{Type: "close", HID: "h9", ReturnValue: "cancel"},
		},
		{name: "malformed", raw: `{`, wantErr: true},
		{name: "unknown type", raw: `{"type":"scroll","hid":"h1"}`, wantErr: true},
		{name: "no target", raw: `{"type":"focus"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEvent([]byte(tt.raw))
			if tt.wantErr {
				if errors.Code(err) != "M080" {
					t.Errorf("err = %v, want M080", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("event mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodePatches(t *testing.T) {
	node := vdom.Li("new")
	node.HID = "h9"
	node.Children[0].HID = "h10"

	data, err := EncodePatches([]vdom.Patch{
		{Op: vdom.PatchInsertNode, ParentID: "h2", Index: 1, Node: node},
		{Op: vdom.PatchSetText, HID: "h5", ParentID: "h4", Value: ""},
		{Op: vdom.PatchSetValue, HID: "h6", Key: "checked", Value: "true"},
	})
	if err != nil {
		t.Fatal(err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	want := []WirePatch{
		{Op: "InsertNode", Parent: "h2", Index: 1, HTML: `<li data-hid="h9">new</li>`},
		{Op: "SetText", HID: "h5", Parent: "h4"},
		{Op: "SetValue", HID: "h6", Key: "checked", Value: "true"},
	}
	if diff := cmp.Diff(want, msg.Patches); diff != "" {
		t.Errorf("patches mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(string(data), `"value":""`) {
		t.Error("empty text must be sent explicitly")
	}
}

func TestEncodeError(t *testing.T) {
	var msg Message
	if err := json.Unmarshal(EncodeError(errors.New("M080").WithDetail("bad")), &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != MessageError || msg.Code != "M080" || msg.Message != "Invalid client event: bad" {
		t.Errorf("message = %+v", msg)
	}
}
