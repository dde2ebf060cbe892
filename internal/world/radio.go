package world

import "github.com/ironvein/engine/internal/core/target"

// RadioMessage is the vocabulary of the inter-entity coordination protocol.
type RadioMessage uint8

const (
	RadioStatic      RadioMessage = iota // no reply / not handled
	RadioRoger                           // acknowledged
	RadioHello                           // request to establish contact
	RadioOverOut                         // sign off, tear down contact
	RadioPickUp                          // transport: come get me
	RadioAttach                          // transport: take me as cargo
	RadioDelivery                        // transport: deliver cargo here
	RadioHoldStill                       // stop moving while I work
	RadioUnloading                       // busy discharging
	RadioLoading                         // busy taking on cargo
	RadioCant                            // refused
	RadioAreYouThere                     // contact liveness probe
	RadioDocking                         // approaching a docking bay
	RadioImIn                            // docked / inside
	RadioNeedRepair                      // requesting repair service
	RadioAllRight                        // service complete
	RadioTether                          // bind close coordination
	RadioUntether                        // release close coordination
	RadioBackup                          // reverse out of the bay
	RadioRunAway                         // scatter, danger inbound
	radioCount
)

var radioNames = [radioCount]string{
	"static", "roger", "hello", "over_out", "pick_up", "attach", "delivery",
	"hold_still", "unloading", "loading", "cant", "are_you_there", "docking",
	"im_in", "need_repair", "all_right", "tether", "untether", "backup",
	"run_away",
}

func (m RadioMessage) String() string {
	if m < radioCount {
		return radioNames[m]
	}
	return "unknown"
}

// RadioState is one endpoint of the protocol: the peer handle and the last
// message received. Contact is only meaningful when both endpoints point at
// each other; Transmit and the default ReceiveMessage maintain that.
type RadioState struct {
	Contact     target.Target
	LastMessage RadioMessage
}

func (r *RadioState) Radio() *RadioState { return r }

// RadioLike is an entity that participates in the radio protocol.
type RadioLike interface {
	ObjectLike
	Radio() *RadioState
	ReceiveMessage(w *State, from RadioLike, msg RadioMessage, param *int) RadioMessage
}

// ReceiveMessage is the default protocol: accept Hello when free, accept
// OverOut from the current peer, answer liveness probes, ignore the rest.
// Kinds with real protocols (refineries, transports, helipads) shadow this
// and fall back to it for the messages they do not handle.
func (r *RadioState) ReceiveMessage(w *State, from RadioLike, msg RadioMessage, param *int) RadioMessage {
	sender := from.Obj().Self
	switch msg {
	case RadioHello:
		if r.Contact.IsNone() || r.Contact == sender {
			r.Contact = sender
			r.LastMessage = msg
			return RadioRoger
		}
		return RadioCant
	case RadioOverOut:
		if r.Contact == sender {
			r.Contact = target.None
			r.LastMessage = msg
		}
		return RadioRoger
	case RadioAreYouThere:
		if r.Contact == sender {
			return RadioRoger
		}
		return RadioStatic
	default:
		return RadioStatic
	}
}

// Transmit sends a message from one entity to another and returns the reply.
// The exchange is synchronous and completes within the call.
//
// OverOut is special: it tears down the sender's contact unconditionally and
// notifies both the old peer and the explicit addressee if they differ, so a
// breakup is always symmetric. A Hello answered with Roger establishes the
// sender's half of the contact; the callee already set its half when it
// accepted, which is what makes contact mutual after a single exchange.
func Transmit(w *State, from RadioLike, msg RadioMessage, param *int, to target.Target) RadioMessage {
	r := from.Radio()
	if to.IsNone() {
		to = r.Contact
	}
	if msg == RadioOverOut {
		old := r.Contact
		r.Contact = target.None
		if peer := w.RadioOf(old); peer != nil {
			peer.ReceiveMessage(w, from, RadioOverOut, param)
		}
		if to != old {
			if peer := w.RadioOf(to); peer != nil {
				peer.ReceiveMessage(w, from, RadioOverOut, param)
			}
		}
		return RadioRoger
	}
	peer := w.RadioOf(to)
	if peer == nil {
		return RadioStatic
	}
	reply := peer.ReceiveMessage(w, from, msg, param)
	if msg == RadioHello && reply == RadioRoger {
		r.Contact = to
	}
	return reply
}

// InContact reports whether two entities hold each other as radio peers.
func InContact(a, b RadioLike) bool {
	return a.Radio().Contact == b.Obj().Self && b.Radio().Contact == a.Obj().Self
}
