package teletext

// objectKey identifies a Local Object definition's entry point, used to guard
// against cyclic invocation (an object that, directly or indirectly, invokes
// itself).
type objectKey struct {
	Y, D, T int
}

// findObjects walks invoc's pending invocations, resolving each Local Object
// reference against its definition in packet (26, d) and recursing into
// Active and Adaptive objects with an elevated parent type. objType is the
// invoking context: 0 for the root/local enhancements, 1 inside an Active
// object, 2 inside an Adaptive object.
//
// path holds the object definitions currently being walked in this recursion
// chain, guarding against an object that directly or indirectly invokes
// itself. It is not a global "already resolved" set: the same object may
// legitimately be invoked from multiple unrelated call sites (a common
// encoding technique to stamp identical content at several positions), so an
// entry is removed from path once its subtree has been fully resolved.
func (d *Decoder) findObjects(page PacketMap, invoc *Invocation, objType int, path map[objectKey]bool) {
	for _, inv := range invoc.Invokes {
		orgR, orgC, itAddress, itMode, itData := inv.R, inv.C, inv.Address, inv.Mode, inv.Data

		// Scope test: an object may only invoke object types below its own.
		if (itMode & 0x10) <= objType {
			continue
		}

		// Locality test: only Local Objects are supported (no POP/GPOP).
		if (itAddress & 0x18) != 0x08 {
			continue
		}
		objDefY := 26
		objDefD := ((itAddress & 0x01) << 3) | (itData >> 4)
		objDefT := itData & 0x0f

		key := objectKey{Y: objDefY, D: objDefD, T: objDefT}
		if path[key] {
			continue
		}

		defPkt, ok := page.Enhancement(objDefY, objDefD)
		if !ok {
			continue
		}
		defTriplet := defPkt[objDefT]
		if defTriplet == nil {
			continue
		}

		levelFilter := 0x08
		if d.level == Level3p5 {
			levelFilter = 0x10
		}

		otTriplet := Split(*defTriplet)
		if itData != otTriplet.Data {
			continue
		}
		if (itAddress & 0x03) != (otTriplet.Address & 0x03) {
			continue
		}
		if (itMode | 0x04) != otTriplet.Mode {
			continue
		}
		if (otTriplet.Address & levelFilter) == 0 {
			continue
		}

		switch itMode {
		case 0x11: // Active
			obj := walk(page, objDefD, objDefT, orgR, orgC, Level2p5)
			d.actInvoc = append(d.actInvoc, obj)
			path[key] = true
			d.findObjects(page, obj, 1, path)
			delete(path, key)
		case 0x12: // Adaptive
			obj := walk(page, objDefD, objDefT, orgR, orgC, Level2p5)
			d.adpInvoc = append(d.adpInvoc, obj)
			path[key] = true
			d.findObjects(page, obj, 2, path)
			delete(path, key)
		case 0x13: // Passive
			obj := walk(page, objDefD, objDefT, orgR, orgC, Level2p5)
			d.pasInvoc = append(d.pasInvoc, obj)
		}
	}
}
