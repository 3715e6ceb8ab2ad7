// Package ifaces takes point-in-time snapshots of the host's network
// interfaces without shelling out to platform tools.
// - the OS enumeration primitive is called once per snapshot
// - the reply is copied into owned records before acquisition returns
// - address buffers are decoded by their explicit family tag
// - hardware addresses are resolved by rescanning the snapshot for a
//   matching link-layer record
//
// Entries the decoder cannot understand are skipped, never turned into
// errors: a snapshot either fails as a whole at acquisition or succeeds
// with entries individually filtered. An empty result is a valid
// snapshot.
package ifaces
