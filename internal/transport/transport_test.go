// SPDX-License-Identifier: MIT
package transport

import "testing"

func TestDiscardTransport(t *testing.T) {
	d := NewDiscardTransport()
	if err := d.Send(struct{ X int }{42}); err != nil {
		t.Errorf("Send error: %v", err)
	}
	if err := d.Send(nil); err != nil {
		t.Errorf("Send(nil) error: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close error: %v", err)
	}
}
