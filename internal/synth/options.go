package synth

// Options carries the caller-supplied gateway parameters.
type Options struct {
	// FrontendOrigin is the value of Access-Control-Allow-Origin, in the
	// gateway's static value syntax (e.g. 'https://app.example.com').
	FrontendOrigin string
	// ConnectionID is the VPC link the integrations route through.
	ConnectionID string
	// EmptyResponseSchema marks a 200 response without a body.
	EmptyResponseSchema string
	// ErrorSchema is referenced by every error response.
	ErrorSchema string
	// SecurityScheme is required by every synthesized method.
	SecurityScheme string
	// RequestValidator names the validator applied to every method.
	RequestValidator string
}

const (
	DefaultEmptyResponseSchema = "EmptyResponse"
	DefaultErrorSchema         = "ResponseHeader"
	DefaultSecurityScheme      = "api_key"
	DefaultRequestValidator    = "Validate body, query string parameters, and headers"
)

func (o Options) withDefaults() Options {
	if o.EmptyResponseSchema == "" {
		o.EmptyResponseSchema = DefaultEmptyResponseSchema
	}
	if o.ErrorSchema == "" {
		o.ErrorSchema = DefaultErrorSchema
	}
	if o.SecurityScheme == "" {
		o.SecurityScheme = DefaultSecurityScheme
	}
	if o.RequestValidator == "" {
		o.RequestValidator = DefaultRequestValidator
	}
	return o
}
