package actions

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/PixPMusic/op1nput/internal/keys"
)

func TestSequenceOwnsSteps(t *testing.T) {
	steps := []Action{Press(keys.A), Press(keys.B)}
	seq := Sequence(steps...)

	steps[0] = Release(keys.Z)

	assert.Equal(t, Press(keys.A), seq.Steps[0])
}

func TestActionString(t *testing.T) {
	seq := Sequence(Press(keys.Shift), Tap(keys.Minus), Delay(15*time.Millisecond), Nothing())
	assert.Equal(t, "[press(Shift), tap(Minus), delay(15ms), nothing]", seq.String())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Sequence(Press(keys.A), Delay(time.Millisecond), Sequence(Release(keys.A))).Validate())

	err := Sequence(Press(keys.A), Sequence(Tap(keys.Key(0)))).Validate()
	assert.True(t, errors.Is(err, ErrUnsupportedKey))

	assert.Error(t, Delay(-time.Second).Validate())
}
