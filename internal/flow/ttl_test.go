package flow

import "time"

func (s *UnitTestSuite) TestTTLCache() {
	c := NewTTL[string, string]()
	c.Set("key1", "value1", 200*time.Millisecond)
	v, ok := c.Get("key1")
	s.True(ok)
	s.Equal("value1", v)

	time.Sleep(250 * time.Millisecond)
	v, ok = c.Get("key1")
	s.False(ok)
	s.Equal("", v)
}

func (s *UnitTestSuite) TestTTLCacheDeleteAndPurge() {
	c := NewTTL[string, int]()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Delete("a")
	_, ok := c.Get("a")
	s.False(ok)
	v, ok := c.Get("b")
	s.True(ok)
	s.Equal(2, v)

	c.Purge()
	_, ok = c.Get("b")
	s.False(ok)
}

func (s *UnitTestSuite) TestTTLCacheFakeClock() {
	now := time.Unix(1700000000, 0)
	SetTimeNowFn(func() time.Time { return now })
	defer RestoreTimeNow()

	c := NewTTL[string, string]()
	c.Set("k", "v", ConfigCacheTTL)
	now = now.Add(ConfigCacheTTL - time.Second)
	_, ok := c.Get("k")
	s.True(ok)
	now = now.Add(2 * time.Second)
	_, ok = c.Get("k")
	s.False(ok)
}
