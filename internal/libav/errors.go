package libav

import (
	"errors"

	"github.com/asticode/go-astiav"

	"github.com/backmassage/hevcmux/internal/averr"
	"github.com/backmassage/hevcmux/internal/media"
)

var errNotLibavInput = errors.New("input was not opened by the libav backend")

// status converts an astiav error into an averr.Status carrying libav's own
// message for the code. Other errors pass through.
func status(err error) error {
	if err == nil {
		return nil
	}
	var ae astiav.Error
	if errors.As(err, &ae) {
		return averr.NewStatus(averr.Code(int(ae)), ae.Error())
	}
	return err
}

// failure reports c the way libav would have returned it.
func failure(c averr.Code) error {
	return status(astiav.Error(c))
}

func fromRational(r astiav.Rational) media.Rational {
	return media.NewRational(r.Num(), r.Den())
}

func toRational(r media.Rational) astiav.Rational {
	return astiav.NewRational(r.Num, r.Den)
}
