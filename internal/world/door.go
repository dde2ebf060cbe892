package world

// DoorState tracks a loading door or bay cover.
type DoorState uint8

const (
	DoorClosed DoorState = iota
	DoorOpening
	DoorOpen
	DoorClosing
)

const doorStages = 4

// Door animates an access door through its open/close swing. Cargo transfer
// waits for DoorOpen.
type Door struct {
	State DoorState
	stage Stage
}

// Open begins the opening swing; a no-op unless the door is closed.
func (d *Door) Open(rate int) {
	if d.State != DoorClosed {
		return
	}
	d.State = DoorOpening
	d.stage = Stage{}
	d.stage.Set(rate)
}

// Close begins the closing swing; a no-op unless the door is open.
func (d *Door) Close(rate int) {
	if d.State != DoorOpen {
		return
	}
	d.State = DoorClosing
	d.stage = Stage{}
	d.stage.Set(rate)
}

func (d *Door) IsOpen() bool   { return d.State == DoorOpen }
func (d *Door) IsClosed() bool { return d.State == DoorClosed }

// Update advances the swing one tick.
func (d *Door) Update() {
	if d.State != DoorOpening && d.State != DoorClosing {
		return
	}
	if !d.stage.Update() {
		return
	}
	if d.stage.Stage < doorStages {
		return
	}
	if d.State == DoorOpening {
		d.State = DoorOpen
	} else {
		d.State = DoorClosed
	}
	d.stage.Stop()
}
