package world

import (
	"fmt"

	"github.com/ironvein/engine/internal/core/target"
)

// SaveGame is the flat serializable snapshot of a State. Slots are recorded
// explicitly so a restore reconstructs the exact pool layout; every handle
// in the save stays meaningful because of it.
type SaveGame struct {
	Version int    `json:"version"`
	Frame   int64  `json:"frame"`
	Seed    int64  `json:"seed"`
	Name    string `json:"name,omitempty"`

	Houses    []HouseRecord    `json:"houses"`
	Buildings []BuildingRecord `json:"buildings"`
	Infantry  []InfantryRecord `json:"infantry"`
	Units     []UnitRecord     `json:"units"`
	Aircraft  []AircraftRecord `json:"aircraft"`
	Bullets   []BulletRecord   `json:"bullets"`
	Anims     []AnimRecord     `json:"anims"`
}

const saveVersion = 1

type HouseRecord struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Human       bool   `json:"human"`
	Credits     int    `json:"credits"`
	PowerOutput int    `json:"power_output"`
	PowerDrain  int    `json:"power_drain"`
	Kills       int    `json:"kills"`
	Losses      int    `json:"losses"`
	Allies      uint32 `json:"allies"`
}

// objectRecord carries the fields every pooled kind shares.
type objectRecord struct {
	Slot     int    `json:"slot"`
	Type     string `json:"type"`
	InLimbo  bool   `json:"in_limbo"`
	X        int32  `json:"x"`
	Y        int32  `json:"y"`
	Strength int    `json:"strength"`
	Selected uint32 `json:"selected,omitempty"` // per-player selection bits
}

// missionRecord snapshots a MissionState.
type missionRecord struct {
	Mission   Mission `json:"mission"`
	Queue     Mission `json:"queue"`
	Suspended Mission `json:"suspended"`
	Status    int     `json:"status"`
	Timer     int     `json:"timer"`
}

// technoRecord snapshots the shared combat block.
type technoRecord struct {
	House      int             `json:"house"`
	TarCom     target.Target   `json:"tarcom"`
	Contact    target.Target   `json:"contact"`
	Facing     DirType         `json:"facing"`
	Ammo       int             `json:"ammo"`
	Rearm      int             `json:"rearm"`
	Cloak      CloakState      `json:"cloak"`
	CloakStage int             `json:"cloak_stage"`
	Cargo      []target.Target `json:"cargo,omitempty"`
	Kills      int             `json:"kills"`
}

// footRecord snapshots the movement block, path buffer included.
type footRecord struct {
	NavCom    target.Target `json:"navcom"`
	Path      []FacingType  `json:"path,omitempty"`
	Driving   bool          `json:"driving"`
	HeadToX   int32         `json:"head_to_x"`
	HeadToY   int32         `json:"head_to_y"`
	PathDelay int           `json:"path_delay"`
	Group     int           `json:"group"`
}

type BuildingRecord struct {
	objectRecord
	missionRecord
	technoRecord
	State      BState        `json:"bstate"`
	Producing  string        `json:"producing,omitempty"`
	BuildTicks int           `json:"build_ticks,omitempty"`
	Docked     target.Target `json:"docked"`
}

type InfantryRecord struct {
	objectRecord
	missionRecord
	technoRecord
	footRecord
	Fear  int  `json:"fear"`
	Prone bool `json:"prone"`
}

type UnitRecord struct {
	objectRecord
	missionRecord
	technoRecord
	footRecord
	OreLoad int `json:"ore_load"`
}

type AircraftRecord struct {
	objectRecord
	missionRecord
	technoRecord
	footRecord
	Altitude int32 `json:"altitude"`
}

type BulletRecord struct {
	objectRecord
	BulletType string        `json:"bullet_type"`
	Damage     int           `json:"damage"`
	Firer      target.Target `json:"firer"`
	TarCom     target.Target `json:"tarcom"`
	AimX       int32         `json:"aim_x"`
	AimY       int32         `json:"aim_y"`
	Facing     DirType       `json:"facing"`
	Fuel       int           `json:"fuel"`
}

type AnimRecord struct {
	objectRecord
	Attached   target.Target `json:"attached"`
	Loops      int           `json:"loops"`
	Stage      int           `json:"stage"`
	StageRate  int           `json:"stage_rate"`
	StageTimer int           `json:"stage_timer"`
}

func snapObject(slot int, typeName string, obj *ObjectState) objectRecord {
	return objectRecord{
		Slot:     slot,
		Type:     typeName,
		InLimbo:  obj.InLimbo,
		X:        obj.Pos.X,
		Y:        obj.Pos.Y,
		Strength: obj.Strength,
		Selected: obj.SelectMask,
	}
}

func snapMission(ms *MissionState) missionRecord {
	return missionRecord{
		Mission:   ms.Mission,
		Queue:     ms.Queue,
		Suspended: ms.Suspended,
		Status:    ms.Status,
		Timer:     ms.Timer,
	}
}

func snapTechno(tech *TechnoState, contact target.Target) technoRecord {
	return technoRecord{
		House:      tech.House,
		TarCom:     tech.TarCom,
		Contact:    contact,
		Facing:     tech.Facing,
		Ammo:       tech.Ammo,
		Rearm:      tech.Rearm,
		Cloak:      tech.Cloak,
		CloakStage: tech.CloakStage,
		Cargo:      tech.Cargo.List(),
		Kills:      tech.Crew.Kills,
	}
}

func snapFoot(ft *FootState) footRecord {
	path := make([]FacingType, ft.PathLen)
	copy(path, ft.Path[:ft.PathLen])
	return footRecord{
		NavCom:    ft.NavCom,
		Path:      path,
		Driving:   ft.Driving,
		HeadToX:   ft.HeadTo.X,
		HeadToY:   ft.HeadTo.Y,
		PathDelay: ft.PathDelay,
		Group:     ft.Group,
	}
}

// Encode captures the entire simulation as a SaveGame, pools walked in
// ascending slot order.
func (w *State) Encode() *SaveGame {
	sg := &SaveGame{
		Version: saveVersion,
		Frame:   w.Frame,
		Seed:    w.Seed,
	}
	for _, h := range w.Houses {
		sg.Houses = append(sg.Houses, HouseRecord{
			ID: h.ID, Name: h.Name, Human: h.Human, Credits: h.Credits,
			PowerOutput: h.PowerOutput, PowerDrain: h.PowerDrain,
			Kills: h.Kills, Losses: h.Losses, Allies: h.AllyMask(),
		})
	}
	w.Buildings.EachActive(func(slot int, b *Building) bool {
		sg.Buildings = append(sg.Buildings, BuildingRecord{
			objectRecord:  snapObject(slot, b.Type.Name, &b.ObjectState),
			missionRecord: snapMission(&b.MissionState),
			technoRecord:  snapTechno(&b.TechnoState, b.Contact),
			State:         b.State,
			Producing:     b.Producing,
			BuildTicks:    b.BuildTicks,
			Docked:        b.Docked,
		})
		return true
	})
	w.Infantry.EachActive(func(slot int, i *Infantry) bool {
		sg.Infantry = append(sg.Infantry, InfantryRecord{
			objectRecord:  snapObject(slot, i.Type.Name, &i.ObjectState),
			missionRecord: snapMission(&i.MissionState),
			technoRecord:  snapTechno(&i.TechnoState, i.Contact),
			footRecord:    snapFoot(&i.FootState),
			Fear:          i.Fear,
			Prone:         i.Prone,
		})
		return true
	})
	w.Units.EachActive(func(slot int, u *Unit) bool {
		sg.Units = append(sg.Units, UnitRecord{
			objectRecord:  snapObject(slot, u.Type.Name, &u.ObjectState),
			missionRecord: snapMission(&u.MissionState),
			technoRecord:  snapTechno(&u.TechnoState, u.Contact),
			footRecord:    snapFoot(&u.FootState),
			OreLoad:       u.OreLoad,
		})
		return true
	})
	w.Aircraft.EachActive(func(slot int, a *Aircraft) bool {
		sg.Aircraft = append(sg.Aircraft, AircraftRecord{
			objectRecord:  snapObject(slot, a.Type.Name, &a.ObjectState),
			missionRecord: snapMission(&a.MissionState),
			technoRecord:  snapTechno(&a.TechnoState, a.Contact),
			footRecord:    snapFoot(&a.FootState),
			Altitude:      a.Altitude,
		})
		return true
	})
	w.Bullets.EachActive(func(slot int, b *Bullet) bool {
		sg.Bullets = append(sg.Bullets, BulletRecord{
			objectRecord: snapObject(slot, b.Type.Name, &b.ObjectState),
			BulletType:   b.Type.Name,
			Damage:       b.Damage,
			Firer:        b.Firer,
			TarCom:       b.TarCom,
			AimX:         b.AimPos.X,
			AimY:         b.AimPos.Y,
			Facing:       b.Facing,
			Fuel:         b.Fuel,
		})
		return true
	})
	w.Anims.EachActive(func(slot int, a *Anim) bool {
		stage, rate, timer := a.stage.Snapshot()
		sg.Anims = append(sg.Anims, AnimRecord{
			objectRecord: snapObject(slot, a.Type.Name, &a.ObjectState),
			Attached:     a.Attached,
			Loops:        a.Loops,
			Stage:        stage,
			StageRate:    rate,
			StageTimer:   timer,
		})
		return true
	})
	return sg
}

func restoreObject(rec *objectRecord, k target.Kind, slot int, obj *ObjectState, maxStrength int) {
	obj.Self = target.Build(k, slot)
	obj.InLimbo = rec.InLimbo
	obj.Pos = Coord{X: rec.X, Y: rec.Y}
	obj.Strength = rec.Strength
	obj.MaxStrength = maxStrength
	obj.SelectMask = rec.Selected
	obj.Selected = rec.Selected != 0
}

func restoreMission(rec *missionRecord, ms *MissionState) {
	ms.Mission = rec.Mission
	ms.Queue = rec.Queue
	ms.Suspended = rec.Suspended
	ms.Status = rec.Status
	ms.Timer = rec.Timer
}

func restoreTechno(rec *technoRecord, tech *TechnoState, r *RadioState) {
	tech.House = rec.House
	tech.TarCom = rec.TarCom
	tech.Facing = rec.Facing
	tech.Ammo = rec.Ammo
	tech.Rearm = rec.Rearm
	tech.Cloak = rec.Cloak
	tech.CloakStage = rec.CloakStage
	tech.Cargo.SetList(rec.Cargo)
	tech.Crew.Kills = rec.Kills
	r.Contact = rec.Contact
}

func restoreFoot(rec *footRecord, ft *FootState) {
	ft.NavCom = rec.NavCom
	n := len(rec.Path)
	if n > PathMax {
		n = PathMax
	}
	copy(ft.Path[:n], rec.Path[:n])
	ft.PathLen = n
	ft.Driving = rec.Driving
	ft.HeadTo = Coord{X: rec.HeadToX, Y: rec.HeadToY}
	ft.PathDelay = rec.PathDelay
	ft.Group = rec.Group
}

// Decode rebuilds the State from a snapshot. Phase one resets the pools and
// reinstates every record at its original slot; phase two walks the restored
// world scrubbing handles that no longer resolve and tearing half-open radio
// contacts down to none, so a truncated or hand-edited save degrades to a
// consistent world instead of a corrupt one.
func (w *State) Decode(sg *SaveGame) error {
	if sg.Version != saveVersion {
		return fmt.Errorf("unsupported save version %d", sg.Version)
	}

	w.Frame = sg.Frame
	w.Seed = sg.Seed
	w.reseed()

	w.Houses = w.Houses[:0]
	for _, hr := range sg.Houses {
		h := NewHouse(hr.ID, hr.Name)
		h.Human = hr.Human
		h.Credits = hr.Credits
		h.PowerOutput = hr.PowerOutput
		h.PowerDrain = hr.PowerDrain
		h.Kills = hr.Kills
		h.Losses = hr.Losses
		h.SetAllyMask(hr.Allies)
		w.AddHouse(h)
	}

	w.Buildings.Reset()
	w.Infantry.Reset()
	w.Units.Reset()
	w.Aircraft.Reset()
	w.Bullets.Reset()
	w.Anims.Reset()

	for i := range sg.Buildings {
		rec := &sg.Buildings[i]
		bt := w.Rules.Buildings.Get(rec.Type)
		if bt == nil {
			return fmt.Errorf("save names unknown building type %q", rec.Type)
		}
		b, ok := w.Buildings.AllocateAt(rec.Slot)
		if !ok {
			return fmt.Errorf("building slot %d unavailable", rec.Slot)
		}
		b.Type = bt
		restoreObject(&rec.objectRecord, target.KindBuilding, rec.Slot, &b.ObjectState, bt.Strength)
		restoreMission(&rec.missionRecord, &b.MissionState)
		restoreTechno(&rec.technoRecord, &b.TechnoState, &b.RadioState)
		b.Armor = bt.Armor
		b.Primary = w.Rules.Weapons.Get(bt.Primary)
		b.Sight = bt.Sight
		b.State = rec.State
		b.Producing = rec.Producing
		b.BuildTicks = rec.BuildTicks
		b.Docked = rec.Docked
	}
	for i := range sg.Infantry {
		rec := &sg.Infantry[i]
		it := w.Rules.Infantry.Get(rec.Type)
		if it == nil {
			return fmt.Errorf("save names unknown infantry type %q", rec.Type)
		}
		inf, ok := w.Infantry.AllocateAt(rec.Slot)
		if !ok {
			return fmt.Errorf("infantry slot %d unavailable", rec.Slot)
		}
		inf.Type = it
		restoreObject(&rec.objectRecord, target.KindInfantry, rec.Slot, &inf.ObjectState, it.Strength)
		restoreMission(&rec.missionRecord, &inf.MissionState)
		restoreTechno(&rec.technoRecord, &inf.TechnoState, &inf.RadioState)
		restoreFoot(&rec.footRecord, &inf.FootState)
		inf.Armor = it.Armor
		inf.Primary = w.Rules.Weapons.Get(it.Primary)
		inf.Sight = it.Sight
		inf.Speed = it.Speed
		inf.Class = MoveFoot
		inf.Fear = rec.Fear
		inf.Prone = rec.Prone
	}
	for i := range sg.Units {
		rec := &sg.Units[i]
		ut := w.Rules.Units.Get(rec.Type)
		if ut == nil {
			return fmt.Errorf("save names unknown unit type %q", rec.Type)
		}
		u, ok := w.Units.AllocateAt(rec.Slot)
		if !ok {
			return fmt.Errorf("unit slot %d unavailable", rec.Slot)
		}
		u.Type = ut
		restoreObject(&rec.objectRecord, target.KindUnit, rec.Slot, &u.ObjectState, ut.Strength)
		restoreMission(&rec.missionRecord, &u.MissionState)
		restoreTechno(&rec.technoRecord, &u.TechnoState, &u.RadioState)
		restoreFoot(&rec.footRecord, &u.FootState)
		u.Armor = ut.Armor
		u.Primary = w.Rules.Weapons.Get(ut.Primary)
		u.Sight = ut.Sight
		u.Speed = ut.Speed
		u.Class = MoveTrack
		u.Cloakable = ut.Cloakable
		u.Cargo.Max = ut.Passengers
		u.OreLoad = rec.OreLoad
	}
	for i := range sg.Aircraft {
		rec := &sg.Aircraft[i]
		at := w.Rules.Aircraft.Get(rec.Type)
		if at == nil {
			return fmt.Errorf("save names unknown aircraft type %q", rec.Type)
		}
		a, ok := w.Aircraft.AllocateAt(rec.Slot)
		if !ok {
			return fmt.Errorf("aircraft slot %d unavailable", rec.Slot)
		}
		a.Type = at
		restoreObject(&rec.objectRecord, target.KindAircraft, rec.Slot, &a.ObjectState, at.Strength)
		restoreMission(&rec.missionRecord, &a.MissionState)
		restoreTechno(&rec.technoRecord, &a.TechnoState, &a.RadioState)
		restoreFoot(&rec.footRecord, &a.FootState)
		a.Armor = at.Armor
		a.Primary = w.Rules.Weapons.Get(at.Primary)
		a.Sight = at.Sight
		a.Speed = at.Speed
		a.Class = MoveWinged
		a.Altitude = rec.Altitude
	}
	for i := range sg.Bullets {
		rec := &sg.Bullets[i]
		bt := w.Rules.Bullets.Get(rec.BulletType)
		if bt == nil {
			return fmt.Errorf("save names unknown bullet type %q", rec.BulletType)
		}
		b, ok := w.Bullets.AllocateAt(rec.Slot)
		if !ok {
			return fmt.Errorf("bullet slot %d unavailable", rec.Slot)
		}
		b.Type = bt
		restoreObject(&rec.objectRecord, target.KindBullet, rec.Slot, &b.ObjectState, rec.Strength)
		b.Payload = w.Rules.Warheads.Get(bt.Warhead)
		b.Damage = rec.Damage
		b.Firer = rec.Firer
		b.TarCom = rec.TarCom
		b.AimPos = Coord{X: rec.AimX, Y: rec.AimY}
		b.Facing = rec.Facing
		b.Fuel = rec.Fuel
	}
	for i := range sg.Anims {
		rec := &sg.Anims[i]
		at := w.Rules.Anims.Get(rec.Type)
		if at == nil {
			return fmt.Errorf("save names unknown anim type %q", rec.Type)
		}
		a, ok := w.Anims.AllocateAt(rec.Slot)
		if !ok {
			return fmt.Errorf("anim slot %d unavailable", rec.Slot)
		}
		a.Type = at
		restoreObject(&rec.objectRecord, target.KindAnim, rec.Slot, &a.ObjectState, rec.Strength)
		a.Attached = rec.Attached
		a.Loops = rec.Loops
		a.stage.Restore(rec.Stage, rec.StageRate, rec.StageTimer)
	}

	w.rebuildOccupancy()
	w.scrubHandles()
	return nil
}

// rebuildOccupancy re-marks the occupancy layer from restored positions.
func (w *State) rebuildOccupancy() {
	w.Buildings.EachActive(func(_ int, b *Building) bool {
		if !b.InLimbo {
			w.Map.MarkOccupied(b.Pos.Cell(), b.Self)
		}
		return true
	})
	w.Infantry.EachActive(func(_ int, i *Infantry) bool {
		if !i.InLimbo {
			w.Map.MarkOccupied(i.Pos.Cell(), i.Self)
		}
		return true
	})
	w.Units.EachActive(func(_ int, u *Unit) bool {
		if !u.InLimbo {
			w.Map.MarkOccupied(u.Pos.Cell(), u.Self)
			if u.Driving {
				w.Map.MarkOccupied(u.HeadTo.Cell(), u.Self)
			}
		}
		return true
	})
}

// scrubHandles is the post-restore validation pass: dangling handles drop to
// None and radio contact is forced back to mutual.
func (w *State) scrubHandles() {
	scrubTechno := func(tech *TechnoState) {
		if !tech.TarCom.IsNone() && !w.IsValid(tech.TarCom) {
			tech.TarCom = target.None
		}
		for _, p := range tech.Cargo.List() {
			if !w.IsValid(p) {
				tech.Cargo.Remove(p)
			}
		}
	}
	scrubFoot := func(ft *FootState) {
		if !ft.NavCom.IsNone() && !w.IsValid(ft.NavCom) {
			ft.NavCom = target.None
			ft.PathLen = 0
		}
	}
	scrubRadio := func(self target.Target, r *RadioState) {
		if r.Contact.IsNone() {
			return
		}
		peer := w.RadioOf(r.Contact)
		if peer == nil || peer.Radio().Contact != self {
			r.Contact = target.None
		}
	}

	w.Buildings.EachActive(func(_ int, b *Building) bool {
		scrubTechno(&b.TechnoState)
		scrubRadio(b.Self, &b.RadioState)
		if !b.Docked.IsNone() && !w.IsValid(b.Docked) {
			b.Docked = target.None
			b.State = BStateIdle
		}
		return true
	})
	w.Infantry.EachActive(func(_ int, i *Infantry) bool {
		scrubTechno(&i.TechnoState)
		scrubFoot(&i.FootState)
		scrubRadio(i.Self, &i.RadioState)
		return true
	})
	w.Units.EachActive(func(_ int, u *Unit) bool {
		scrubTechno(&u.TechnoState)
		scrubFoot(&u.FootState)
		scrubRadio(u.Self, &u.RadioState)
		return true
	})
	w.Aircraft.EachActive(func(_ int, a *Aircraft) bool {
		scrubTechno(&a.TechnoState)
		scrubFoot(&a.FootState)
		scrubRadio(a.Self, &a.RadioState)
		return true
	})
	w.Bullets.EachActive(func(_ int, b *Bullet) bool {
		if !b.TarCom.IsNone() && !w.IsValid(b.TarCom) {
			b.TarCom = target.None
		}
		if !b.Firer.IsNone() && !w.IsValid(b.Firer) {
			b.Firer = target.None
		}
		return true
	})
	w.Anims.EachActive(func(_ int, a *Anim) bool {
		if !a.Attached.IsNone() && !w.IsValid(a.Attached) {
			a.Attached = target.None
		}
		return true
	})
}
