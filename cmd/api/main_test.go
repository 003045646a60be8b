package main

import (
	"testing"

	"github.com/sanavida/clinic-booking-platform/internal/slots"
	"github.com/sanavida/clinic-booking-platform/internal/video"
)

func TestRoomCreatorOrNilKeepsInterfaceNil(t *testing.T) {
	if rc := roomCreatorOrNil(nil); rc != nil {
		t.Fatal("nil client must produce a nil interface")
	}

	client := video.NewClient(video.Config{BaseURL: "https://video.example", APIKey: "k"}, nil)
	if rc := roomCreatorOrNil(client); rc == nil {
		t.Fatal("configured client must produce a non-nil interface")
	}
}

func TestHolderOrNilKeepsInterfaceNil(t *testing.T) {
	if h := holderOrNil(nil); h != nil {
		t.Fatal("nil hold store must produce a nil interface")
	}
	var _ slots.Holder = holderOrNil(nil)
}
