// Command swfdump feeds a container file through swfstream.Parser in
// fixed-size chunks and logs a summary of the decoded header and tags.
// It exists mainly to exercise the streaming API against real files.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/thebagchi/swfstream"
	"github.com/thebagchi/swfstream/lib/swferr"
)

func main() {
	var (
		filename  = flag.String("file", "", "container file to parse")
		chunkSize = flag.Int("chunk-size", 4096, "bytes fed to Feed per call")
	)
	flag.Parse()
	if len(*filename) == 0 {
		log.Fatal("swfdump: -file is required")
	}
	if *chunkSize <= 0 {
		log.Fatal("swfdump: -chunk-size must be positive")
	}

	data, err := os.ReadFile(*filename)
	if err != nil {
		log.Fatalf("swfdump: %v", err)
	}

	parser := swfstream.New()
	defer parser.Close()
	parser.SetCallbacks(swfstream.Callbacks{
		OnHeader: func(p *swfstream.Parser) {
			c := p.Container()
			log.Printf("header: compression=%s version=%d declared_size=%d", c.Compression, c.Version, c.DeclaredSize)
		},
		OnDecompressedHeader: func(p *swfstream.Parser) {
			c := p.Container()
			log.Printf("frame: rect=%+v frame_rate=%#04x frame_count=%d", c.Rect, c.FrameRate, c.FrameCount)
		},
	})

	for offset := 0; offset < len(data); offset += *chunkSize {
		end := offset + *chunkSize
		if end > len(data) {
			end = len(data)
		}
		if ferr := parser.Feed(data[offset:end]); ferr != nil {
			if ferr.Code == swferr.Finished {
				break
			}
			log.Fatalf("swfdump: %v", ferr)
		}
	}

	c := parser.Container()
	log.Printf("done: %d tags, jpeg_tables=%d bytes", c.Tags.Len(), len(c.JPEGTables))
}
