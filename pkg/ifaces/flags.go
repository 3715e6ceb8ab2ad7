package ifaces

// opFlag is the portable view of the interface state bits backing the
// named predicates. Acquisition maps the platform's flag word into this
// set; bits a platform cannot report stay clear, so the corresponding
// predicates are simply false there.
type opFlag uint16

const (
	opUp opFlag = 1 << iota
	opBroadcast
	opLoopback
	opPointToPoint
	opRunning
	opNoARP
	opPromiscuous
	opMulticast
	opMaster
	opSlave
)
