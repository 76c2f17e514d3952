// Package api exposes the console's northbound HTTP surface: the input
// event endpoints the UI forwards raw joystick, keyboard, button, and voice
// events to, the camera and mapping pass-throughs, and the SSE feedback
// stream. All responses share one envelope with a correlation ID.
package api
