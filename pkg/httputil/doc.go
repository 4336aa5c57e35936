// Package httputil provides the HTTP plumbing shared by the upload store and
// the mail API transport.
//
// # Client
//
// [Client] sends one request with default headers, maps the response status
// to an error and decodes a JSON body. Transient failures (network errors,
// 429 and 5xx responses) are retried with exponential backoff; anything
// else fails at once:
//
//	c := httputil.NewClient(map[string]string{"Authorization": "Bearer " + token})
//	var out uploadResponse
//	err := c.Send(ctx, httputil.Request{
//	    Method:      http.MethodPost,
//	    URL:         endpoint,
//	    Body:        body,
//	    ContentType: contentType,
//	}, &out)
//
// Non-2xx responses come back as [*StatusError], which keeps the status
// code and the start of the response body for logging.
//
// # Retry
//
// [Retry] and [RetryWithBackoff] can also wrap any other operation. Only
// errors wrapped in [RetryableError] are retried.
package httputil
