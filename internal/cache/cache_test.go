package cache

import (
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func TestCache(t *testing.T) {
	convey.Convey("Given an enabled cache", t, func() {
		c := New(true)

		convey.Convey("When storing and retrieving a value", func() {
			etag := c.Set("pct:2024txhou:5940", []byte(`{"a":1}`), time.Minute)

			data, gotETag, ok := c.Get("pct:2024txhou:5940")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(string(data), convey.ShouldEqual, `{"a":1}`)
			convey.So(gotETag, convey.ShouldEqual, etag)
		})

		convey.Convey("When an entry has expired", func() {
			c.Set("short", []byte("x"), -time.Second)
			_, _, ok := c.Get("short")
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("When invalidating by prefix", func() {
			c.Set("pct:2024txhou:5940", []byte("a"), time.Minute)
			c.Set("pct:2024txhou:254", []byte("b"), time.Minute)
			c.Set("pct:2024casj:5940", []byte("c"), time.Minute)
			c.InvalidatePrefix("pct:2024txhou")

			_, _, ok := c.Get("pct:2024txhou:5940")
			convey.So(ok, convey.ShouldBeFalse)
			_, _, ok = c.Get("pct:2024txhou:254")
			convey.So(ok, convey.ShouldBeFalse)
			_, _, ok = c.Get("pct:2024casj:5940")
			convey.So(ok, convey.ShouldBeTrue)
		})

		convey.Convey("When asking for stats", func() {
			c.Set("live", []byte("x"), time.Minute)
			c.Set("dead", []byte("y"), -time.Second)
			stats := c.Stats()
			convey.So(stats["enabled"], convey.ShouldBeTrue)
			convey.So(stats["total_keys"], convey.ShouldEqual, 2)
			convey.So(stats["active_keys"], convey.ShouldEqual, 1)
		})
	})

	convey.Convey("Given a disabled cache", t, func() {
		c := New(false)

		convey.Convey("Then Set still yields an ETag but nothing is stored", func() {
			etag := c.Set("k", []byte("v"), time.Minute)
			convey.So(etag, convey.ShouldNotBeEmpty)
			_, _, ok := c.Get("k")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestETag(t *testing.T) {
	convey.Convey("Given response payloads", t, func() {
		convey.Convey("Then identical data yields identical weak ETags", func() {
			a := ComputeETag([]byte("payload"))
			b := ComputeETag([]byte("payload"))
			convey.So(a, convey.ShouldEqual, b)
			convey.So(a, convey.ShouldStartWith, `W/"`)
		})

		convey.Convey("Then different data yields different ETags", func() {
			convey.So(ComputeETag([]byte("a")), convey.ShouldNotEqual, ComputeETag([]byte("b")))
		})

		convey.Convey("Then If-None-Match is honored", func() {
			etag := ComputeETag([]byte("payload"))
			convey.So(CheckETagMatch(etag, etag), convey.ShouldBeTrue)
			convey.So(CheckETagMatch("*", etag), convey.ShouldBeTrue)
			convey.So(CheckETagMatch("", etag), convey.ShouldBeFalse)
			convey.So(CheckETagMatch(`W/"other"`, etag), convey.ShouldBeFalse)
		})
	})
}
