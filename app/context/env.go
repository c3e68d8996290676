package context

// Environment is the interface to the process environment. It is used instead
// of os.Getenv and os.Setenv, so that tests don't leak variables.
type Environment interface {
	Get(key string) string
	Set(key, val string) error
}
