// Package linklayer owns the protocol layers that sit on the baseband
// scheduler: a connectionless advertiser, a direct test mode, and a PRBS15
// carrier that only holds the radio powered.
package linklayer
