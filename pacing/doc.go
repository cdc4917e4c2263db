// Package pacing schedules frame presentation against a source's native frame
// interval using a deficit counter.
//
// The display surface offers no vsync or resize events, so playback is a busy
// polling loop. Every pass calls [Controller.Tick], which measures monotonic
// time since the previous mark and subtracts it from the deficit. While the
// deficit is non-negative the caller is early and idles. Once it goes negative
// the caller is late: [Decision.Skip] says how many frames to read (all but the
// last are discarded) so playback catches up rather than drifting.
//
// After presenting a frame the caller invokes [Controller.Rendered], which
// resets the deficit to one interval minus the time spent on the tick so render
// cost is charged to the schedule.
//
// Typical usage:
//
//	pc := pacing.New(src.FPS)
//	pc.Start()
//
//	for {
//	    d := pc.Tick()
//	    if !d.Render {
//	        continue
//	    }
//
//	    frame := readFrames(d.Skip)
//	    draw(frame)
//	    pc.Rendered()
//	}
package pacing
