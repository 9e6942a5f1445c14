package main

import (
	"encoding/base64"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gofiber/fiber/v3"
	"github.com/sicko7947/petstore"
)

// ToProxyRequest converts a Fiber request into the API Gateway proxy event the
// handler consumes, so local runs exercise the same code path as Lambda.
func ToProxyRequest(c fiber.Ctx) events.APIGatewayProxyRequest {
	req := events.APIGatewayProxyRequest{
		HTTPMethod:            c.Method(),
		Path:                  c.Path(),
		QueryStringParameters: c.Queries(),
	}

	if petID := c.Params(petstore.PathParamPetID); petID != "" {
		req.PathParameters = map[string]string{petstore.PathParamPetID: petID}
	}

	headers := make(map[string]string)
	for name, values := range c.GetReqHeaders() {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}
	req.Headers = headers

	body := c.Body()
	if len(body) > 0 {
		// Binary payloads travel base64 encoded, as API Gateway does
		if utf8.Valid(body) {
			req.Body = string(body)
		} else {
			req.Body = base64.StdEncoding.EncodeToString(body)
			req.IsBase64Encoded = true
		}
	}

	return req
}

// WriteProxyResponse copies a proxy response onto the Fiber context
func WriteProxyResponse(c fiber.Ctx, resp events.APIGatewayProxyResponse) error {
	for name, value := range resp.Headers {
		c.Set(name, value)
	}
	return c.Status(resp.StatusCode).SendString(resp.Body)
}
