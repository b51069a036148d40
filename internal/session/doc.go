/*
Package session serves interactive playback to browsers over websockets.

Each connection gets its own navigator. The browser plays the video and
reports back; the server decides what to show and where to go next.

Messages are JSON objects with an event name and optional data:

	{"event": "position", "data": {"seconds": 12.5}}

The browser sends start, position, duration, state, ended, click, key and
close. The server sends the player commands open, play, pause and seek, and
the navigation events annotation_shown, annotation_hidden, video_loaded,
navigation_failed, external_link and session_ended. Problems with a message
are answered with an error event; the session continues.
*/
package session
