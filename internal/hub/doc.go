// Package hub assembles the soracore runtime.
//
// A Hub owns the diagnostic sink, metrics, host lifecycle, channel catalog and
// the audio, UI and level managers. Every caller and provider receives the
// Hub (or one of its parts) explicitly; there is no package-level state, so
// tests can build as many isolated hubs as they need.
//
// Typical use:
//
//	h, err := hub.New(cfg, hub.WithSink(sink))
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	if err := h.ActivateHeadless(ctx); err != nil {
//	    return err
//	}
//	if err := h.Boot(ctx); err != nil {
//	    return err
//	}
package hub
