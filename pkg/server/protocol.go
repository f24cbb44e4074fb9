package server

import (
	"encoding/json"

	"github.com/fzzzy/mumulib/internal/errors"
	"github.com/fzzzy/mumulib/pkg/document"
	"github.com/fzzzy/mumulib/pkg/render"
	"github.com/fzzzy/mumulib/pkg/vdom"
)

// Message types sent to the client.
const (
	MessageBody    = "body"
	MessagePatches = "patches"
	MessageError   = "error"
)

// Message is a server to client message.
type Message struct {
	Type    string      `json:"type"`
	HTML    string      `json:"html,omitempty"`
	Patches []WirePatch `json:"patches,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// WirePatch is the JSON form of a vdom.Patch. Text nodes carry no data-hid
// in the page, so the client locates them by parent and index.
type WirePatch struct {
	Op     string `json:"op"`
	HID    string `json:"hid,omitempty"`
	Parent string `json:"parent,omitempty"`
	Index  int    `json:"index"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value"`
	HTML   string `json:"html,omitempty"`
}

// ClientEvent is a client to server event.
type ClientEvent struct {
	Type        string `json:"type"`
	HID         string `json:"hid"`
	Value       string `json:"value,omitempty"`
	Checked     bool   `json:"checked,omitempty"`
	ReturnValue string `json:"returnValue,omitempty"`
}

var hidRenderer = render.NewRenderer(render.RendererConfig{IncludeHIDs: true})

// EncodePatches converts a patch batch to its wire message. Inserted and
// replacement nodes are rendered now, so call it while the tree is stable.
func EncodePatches(patches []vdom.Patch) ([]byte, error) {
	msg := Message{Type: MessagePatches, Patches: make([]WirePatch, 0, len(patches))}
	for _, p := range patches {
		wp := WirePatch{
			Op:     p.Op.String(),
			HID:    p.HID,
			Parent: p.ParentID,
			Index:  p.Index,
			Key:    p.Key,
			Value:  p.Value,
		}
		if p.Node != nil {
			html, err := hidRenderer.RenderToString(p.Node)
			if err != nil {
				return nil, err
			}
			wp.HTML = html
		}
		msg.Patches = append(msg.Patches, wp)
	}
	return json.Marshal(msg)
}

// EncodeBody renders the full body message.
func EncodeBody(body *vdom.VNode) ([]byte, error) {
	html, err := hidRenderer.RenderToString(body)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: MessageBody, HTML: html})
}

// EncodeError renders an error message for the client.
func EncodeError(err error) []byte {
	msg := Message{Type: MessageError, Code: errors.Code(err), Message: err.Error()}
	if e, ok := err.(*errors.Error); ok {
		msg.Message = e.Message
		if e.Detail != "" {
			msg.Message += ": " + e.Detail
		}
	}
	data, _ := json.Marshal(msg)
	return data
}

// DecodeEvent parses and validates a client event.
func DecodeEvent(data []byte) (*document.Event, error) {
	var ce ClientEvent
	if err := json.Unmarshal(data, &ce); err != nil {
		return nil, errors.New("M080").Wrap(err)
	}
	switch ce.Type {
	case document.EventFocus, document.EventFocusOut, document.EventInput,
		document.EventChange, document.EventClick, document.EventClose:
	default:
		return nil, errors.New("M080").WithDetailf("unknown event type %q", ce.Type)
	}
	if ce.HID == "" {
		return nil, errors.New("M080").WithDetail("event has no target")
	}
	return &document.Event{
		Type:        ce.Type,
		HID:         ce.HID,
		Value:       ce.Value,
		Checked:     ce.Checked,
		ReturnValue: ce.ReturnValue,
	}, nil
}
