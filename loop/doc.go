// Package loop drives the guest at a fixed cadence.
//
// A Runner calls the guest's main entry point once, then calls step
// forever, sleeping a fixed Interval (16,667µs, about 60 Hz) after every
// step. The sleep is not shortened by the time the step took: drift is
// accepted and never corrected, and late frames are not skipped.
//
// States:
//
//	Uninitialized --main ok--> Running
//
// A main failure is fatal and the loop never starts. A step failure is
// fatal under FailFast (the default); Continue logs and counts it and
// keeps going. Cancelling the context stops the loop between steps or
// during the sleep; Run then returns nil.
package loop
