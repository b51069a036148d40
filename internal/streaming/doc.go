/*
Package streaming bounds how long a slow client can hold a video response.

The main HTTP server has no write timeout, since a video may take longer to
download than any sensible fixed limit. [Writer] instead sets a deadline on
each write, split into chunks of [Config.ChunkSize] bytes, and stops the
response once a single chunk cannot be delivered within
[Config.WriteTimeout] or the request context ends.

# Basic Usage

	func (h *Handlers) StreamVideo(w http.ResponseWriter, r *http.Request) {
		f, err := os.Open(path)
		if err != nil {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		defer f.Close()

		info, _ := f.Stat()
		if err := streaming.Serve(w, r, info.Name(), info.ModTime(), f, streaming.DefaultConfig()); err != nil {
			log.Debug("stream ended early: %v", err)
		}
	}

[Serve] goes through http.ServeContent, so Range and If-Modified-Since
requests behave as usual, and records the outcome in the
tube_adventures_video_streams_* metrics.

Write deadlines need a writer that supports them through
http.ResponseController. Writers that do not, such as
httptest.ResponseRecorder, are written to without a deadline.
*/
package streaming
