/*
Package navigation drives an interactive video session: it shows and hides
the annotations of the current video as playback advances and, when a
gameplay annotation is clicked, loads the video it points to.

Each annotation is a two-state machine (hidden, shown) recomputed from the
playback position on every tick, so seeking backwards or forwards needs no
special handling. A click on a gameplay annotation resolves the destination
video ID from the click URL, locates that video's annotation file and runs
Load on it, which replaces all annotation state.

Failures are reported through Listener.NavigationFailed. With
Config.AbortOnFailure (the default) they also end the session.
*/
package navigation
