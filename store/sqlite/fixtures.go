package sqlite

import "github.com/unkn0wn-root/worldcache"

// DefaultFortunes is the standard benchmark fortune set.
func DefaultFortunes() []worldcache.Fortune {
	return []worldcache.Fortune{
		{ID: 1, Message: "fortune: No such file or directory"},
		{ID: 2, Message: "A computer scientist is someone who fixes things that aren't broken."},
		{ID: 3, Message: "After enough decimal places, nobody gives a damn."},
		{ID: 4, Message: "A bad random number generator: 1, 1, 1, 1, 1, 4.33e+67, 1, 1, 1"},
		{ID: 5, Message: "A computer program does what you tell it to do, not what you want it to do."},
		{ID: 6, Message: "Emacs is a nice operating system, but I prefer UNIX. — Tom Christaensen"},
		{ID: 7, Message: "Any program that runs right is obsolete."},
		{ID: 8, Message: "A list is only as strong as its weakest link. — Donald Knuth"},
		{ID: 9, Message: "Feature: A bug with seniority."},
		{ID: 10, Message: "Computers make very fast, very accurate mistakes."},
		{ID: 11, Message: `<script>alert("This should not be displayed in a browser alert box.");</script>`},
		{ID: 12, Message: "フレームワークのベンチマーク"},
	}
}

// RandomWorlds returns WorldCount rows with RandomNumber drawn by draw(n) + 1,
// where draw returns a value in [0, n).
func RandomWorlds(draw func(n int) int) []worldcache.World {
	out := make([]worldcache.World, worldcache.WorldCount)
	for i := range out {
		out[i] = worldcache.World{ID: i + 1, RandomNumber: int32(draw(worldcache.WorldCount) + 1)}
	}
	return out
}
