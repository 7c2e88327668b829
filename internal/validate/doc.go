// Package validate checks a completed build for electrical and structural
// consistency.
//
// Rules run in a fixed order and each returns every finding it has, so one
// pass reports all problems:
//
//	E.REF.UNKNOWN, E.REF.KIND   identifiers resolve, and to the right kind
//	E.VOLT.MISMATCH             connected entities share a nominal voltage
//	W.RATING.CURRENT            switching devices carry their line's current
//	W.TOPO.ISOLATED             every device is connected or in a bay
//	W.BAY.EMPTY                 declared bays have members
//	E.COUPLER.BUS, .SELF        couplers join two different buses
//	W.COUPLER.KV, W.BAY.KV      couplers and bays match their buses' voltage
//	W.PROT.BRK_UNUSED           bay breakers appear in a connection
//
// Transformers carry no nominal voltage of their own and are exempt from
// the voltage rule on both sides.
package validate
