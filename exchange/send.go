package exchange

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SendRequest performs the single blocking exchange: build the request,
// send it, return the raw response. The caller closes the response body.
func SendRequest(spec *RequestSpec, options *Options) (*http.Response, error) {
	client := buildHTTPClient(options)
	r, err := BuildHTTPRequest(spec, options)
	if err != nil {
		return nil, err
	}

	logrus.Debugf("sending %s %s", r.Method, r.URL)
	resp, err := client.Do(r)
	if err != nil {
		return nil, errors.Wrap(err, "sending HTTP request")
	}
	logrus.Debugf("received %s", resp.Status)

	return resp, nil
}
