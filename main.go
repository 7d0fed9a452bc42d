// youtube-converter downloads YouTube videos as MP4 and converts them
// to MP3 using ffmpeg.
package main

import "github.com/Hangghost/youtube-converter/cmd"

func main() {
	cmd.Execute()
}
