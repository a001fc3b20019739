package backend

import (
	"context"
	"errors"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/conn-castle/slivka-install/internal/envfile"
	"github.com/conn-castle/slivka-install/internal/interpolate"
)

const envCacheKey = "env"

// DockerContext resolves env: and which: keys by running the image.
// Answers are cached for the lifetime of the context.
type DockerContext struct {
	Docker string
	Image  string
	Runner Runner
	Ctx    context.Context

	cache *gocache.Cache
}

// NewDockerContext returns a provider for image, run through docker.
func NewDockerContext(ctx context.Context, runner Runner, docker string, image string) *DockerContext {
	return &DockerContext{
		Docker: docker,
		Image:  image,
		Runner: runner,
		Ctx:    ctx,
		cache:  gocache.New(gocache.NoExpiration, 0),
	}
}

// Get implements interpolate.Provider.
func (c *DockerContext) Get(namespace string, name string) (string, error) {
	switch namespace {
	case NamespaceEnv:
		env, err := c.environ()
		if err != nil {
			return "", err
		}
		value, ok := env[name]
		if !ok {
			return "", interpolate.NotFound(namespace, name)
		}
		return value, nil
	case NamespaceWhich:
		return c.which(name)
	default:
		return "", interpolate.NotFound(namespace, name)
	}
}

// environ runs the image's env once and caches the parsed variables.
func (c *DockerContext) environ() (map[string]string, error) {
	if cached, ok := c.store().Get(envCacheKey); ok {
		return cached.(map[string]string), nil
	}
	out, err := c.Runner.Output(c.context(), Command{
		Args: []string{c.Docker, "run", "--rm", "--entrypoint", "env", c.Image},
	})
	if err != nil {
		return nil, err
	}
	env, err := envfile.ParseEnviron(string(out))
	if err != nil {
		return nil, err
	}
	c.store().Set(envCacheKey, env, gocache.NoExpiration)
	return env, nil
}

func (c *DockerContext) which(name string) (string, error) {
	key := NamespaceWhich + ":" + name
	if cached, ok := c.store().Get(key); ok {
		return cached.(string), nil
	}
	out, err := c.Runner.Output(c.context(), Command{
		Args: []string{c.Docker, "run", "--rm", "--entrypoint", "which", c.Image, name},
	})
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 {
			return "", &ExecutableNotFoundError{Name: name}
		}
		return "", err
	}
	path := strings.TrimSpace(string(out))
	c.store().Set(key, path, gocache.NoExpiration)
	return path, nil
}

func (c *DockerContext) store() *gocache.Cache {
	if c.cache == nil {
		c.cache = gocache.New(gocache.NoExpiration, 0)
	}
	return c.cache
}

func (c *DockerContext) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}
