// Package layered composes an ordered list of cache tiers into read, write
// and delete chains and routes calls through them.
//
// Tiers are registered fastest first:
//
//	c := layered.New[string]().
//		Use(tiers.NewMemory[string]("memory", 5*time.Minute, 10*time.Minute)).
//		Use(tiers.NewRedis[string]("redis", client, codec.JSON{}, time.Hour))
//
// Reads visit tiers in registration order. A tier that finds the key sets the
// body and returns without calling next, so slower tiers never run. A tier
// that misses calls next, and once it returns may copy the body into its own
// store (backfill):
//
//	func (t *myTier) Get(ctx context.Context, c *layered.Context[string], next layered.Next) error {
//		if v, ok := t.lookup(c.Key()); ok {
//			c.SetBody(v)
//			return nil
//		}
//		if err := next(); err != nil {
//			return err
//		}
//		if v, ok := c.Body(); ok {
//			t.store(c.Key(), v)
//		}
//		return nil
//	}
//
// Writes and deletes visit only the tiers that implement Setter or Deleter,
// in reverse registration order, so the most authoritative tier is updated
// first and control unwinds towards the fastest one.
package layered
