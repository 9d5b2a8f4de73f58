/*
Package erpsdk is the Go client of the Outrenational ERP API.

A Client talks to the public endpoints (health, signup, token) and opens a
Session, which carries the access token and refreshes it when it expires:

	client := erpsdk.NewClient("https://erp.example.com")

	session, err := client.Login(ctx, erpsdk.LoginRequest{
		Tenant:   "outre",
		Email:    "owner@outre.example",
		Password: password,
	})
	if err != nil {
		var apiErr *erpsdk.APIError
		if errors.As(err, &apiErr) && apiErr.Code == erpsdk.ErrorCodeMFARequired {
			// retry with OTP set
		}
		return err
	}

	report, err := session.ImportProducts(ctx, file)

Every non-2xx response is returned as an *APIError carrying the HTTP status,
the error code and its description. Sessions are safe for concurrent use.
*/
package erpsdk
