package words

// Hash is the rolling h*31+c hash over the key's code points, wrapping at
// 2^32. It must stay stable: changing it changes every past daily word.
func Hash(key string) uint32 {
	var h uint32
	for _, c := range key {
		h = h*31 + uint32(c)
	}
	return h
}

// Select returns the daily word for key.
func Select(key string, pool *Pool) string {
	return pool.At(int(Hash(key) % uint32(pool.Len())))
}
