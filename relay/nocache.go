package relay

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// taken from https://stackoverflow.com/questions/33880343/go-webserver-dont-cache-files-using-timestamp
// so a rebuilt wasm is always picked up

var epoch = time.Unix(0, 0).Format(time.RFC1123)

var noCacheHeaders = map[string]string{
	"Expires":         epoch,
	"Cache-Control":   "no-cache, private, max-age=0",
	"Pragma":          "no-cache",
	"X-Accel-Expires": "0",
}

var etagHeaders = []string{
	"ETag",
	"If-Modified-Since",
	"If-Match",
	"If-None-Match",
	"If-Range",
	"If-Unmodified-Since",
}

func NoCache(c *fiber.Ctx) error {
	for _, v := range etagHeaders {
		c.Request().Header.Del(v)
	}

	for k, v := range noCacheHeaders {
		c.Set(k, v)
	}

	return c.Next()
}
