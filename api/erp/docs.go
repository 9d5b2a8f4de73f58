// Package erp holds the OpenAPI document served under /swagger/.
// Regenerate with: swag init -g internal/erp/http/router.go -o api/erp
package erp

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Outrenational",
            "url": "https://github.com/OolalaDXB/outrenational"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/.well-known/jwks.json": {
            "get": {
                "summary": "Get JWKS",
                "description": "Returns the JSON Web Key Set used to verify access tokens.",
                "tags": [
                    "well-known"
                ],
                "responses": {
                    "200": {
                        "description": "The JSON Web Key Set"
                    }
                }
            }
        },
        "/livez": {
            "get": {
                "summary": "Liveness probe",
                "description": "Returns 200 with uptime and version while the process is running.",
                "tags": [
                    "Health"
                ],
                "responses": {
                    "200": {
                        "description": "status, uptime, version"
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "summary": "Readiness probe",
                "description": "Checks the database, the token signer and the cache. Any failure answers 503.",
                "tags": [
                    "Health"
                ],
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks"
                    },
                    "503": {
                        "description": "service not ready"
                    }
                }
            }
        },
        "/v1/auth/refresh": {
            "post": {
                "summary": "Refresh tokens",
                "description": "Rotates a refresh token. Reusing a rotated token revokes the whole session family.",
                "tags": [
                    "Auth"
                ],
                "parameters": [
                    {
                        "description": "Refresh token",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    },
                    "401": {
                        "description": "invalid_token"
                    }
                }
            }
        },
        "/v1/auth/revoke": {
            "post": {
                "summary": "Revoke a refresh token",
                "description": "Unknown tokens are accepted silently.",
                "tags": [
                    "Auth"
                ],
                "parameters": [
                    {
                        "description": "Refresh token",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "204": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/auth/token": {
            "post": {
                "summary": "Log in",
                "description": "Exchanges tenant slug, email and password (plus a TOTP code once MFA is enabled) for a token pair.",
                "tags": [
                    "Auth"
                ],
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "401": {
                        "description": "invalid_credentials or mfa_required"
                    }
                }
            }
        },
        "/v1/billing/subscribe": {
            "post": {
                "summary": "Subscribe the tenant",
                "description": "Creates the Stripe customer when missing, then a subscription. Without price_id the default plan is used.",
                "tags": [
                    "Billing"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Plan",
                        "name": "request",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "502": {
                        "description": "Stripe error"
                    },
                    "503": {
                        "description": "billing not configured"
                    }
                }
            }
        },
        "/v1/billing/webhook": {
            "post": {
                "summary": "Stripe webhook",
                "description": "Verifies the Stripe-Signature header and applies subscription and invoice events once per event id.",
                "tags": [
                    "Billing"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Stripe signature",
                        "name": "Stripe-Signature",
                        "in": "header",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "400": {
                        "description": "bad signature or payload"
                    }
                }
            }
        },
        "/v1/customers": {
            "post": {
                "summary": "Create a customer",
                "tags": [
                    "Customers"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Customer",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    }
                }
            },
            "get": {
                "summary": "List customers",
                "tags": [
                    "Customers"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/customers/{id}": {
            "get": {
                "summary": "Get a customer",
                "tags": [
                    "Customers"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Customer id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    }
                }
            },
            "put": {
                "summary": "Update a customer",
                "description": "Changing the VAT number clears its validated flag.",
                "tags": [
                    "Customers"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Customer id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Customer",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/customers/{id}/vat/validate": {
            "post": {
                "summary": "Validate a customer's VAT number",
                "description": "Stores the result on the customer. An unavailable VIES keeps the previous flag.",
                "tags": [
                    "VAT"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Customer id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    },
                    "502": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/dashboard": {
            "get": {
                "summary": "Business summary",
                "description": "Revenue, order count, open purchasing, low stock, top products and consignment payable for [from, to).",
                "tags": [
                    "Reports"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Inclusive start (default: first day of this month)",
                        "name": "from",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Exclusive end",
                        "name": "to",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/discogs/releases/{id}": {
            "get": {
                "summary": "Look up a Discogs release",
                "tags": [
                    "Catalog"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Discogs release id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    },
                    "502": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/invoices": {
            "get": {
                "summary": "List invoices",
                "tags": [
                    "Invoices"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Customer",
                        "name": "customer_id",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "issued, paid or void",
                        "name": "status",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Issued on or after",
                        "name": "from",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Issued before",
                        "name": "to",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Page size",
                        "name": "limit",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Offset",
                        "name": "offset",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/invoices/export": {
            "get": {
                "summary": "Export invoices as CSV",
                "description": "Accepts the same filters as the listing. X-Row-Count carries the number of rows.",
                "tags": [
                    "Invoices"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/invoices/{id}": {
            "get": {
                "summary": "Get an invoice",
                "tags": [
                    "Invoices"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Invoice id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/invoices/{id}/pay": {
            "post": {
                "summary": "Mark paid",
                "tags": [
                    "Invoices"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Invoice id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "409": {
                        "description": "invalid_transition"
                    }
                }
            }
        },
        "/v1/invoices/{id}/void": {
            "post": {
                "summary": "Void an invoice",
                "description": "Paid invoices cannot be voided.",
                "tags": [
                    "Invoices"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Invoice id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "409": {
                        "description": "invalid_transition"
                    }
                }
            }
        },
        "/v1/me": {
            "get": {
                "summary": "Current user",
                "tags": [
                    "Users"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/me/password": {
            "post": {
                "summary": "Change password",
                "description": "Revokes every refresh token of the caller on success.",
                "tags": [
                    "Users"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Passwords",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "204": {
                        "description": "password policy"
                    },
                    "401": {
                        "description": "wrong current password"
                    }
                }
            }
        },
        "/v1/mfa/totp": {
            "delete": {
                "summary": "Disable TOTP",
                "tags": [
                    "MFA"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Current code",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "204": {
                        "description": "wrong code"
                    },
                    "409": {
                        "description": "not enrolled"
                    }
                }
            }
        },
        "/v1/mfa/totp/enroll": {
            "post": {
                "summary": "Start TOTP enrollment",
                "description": "Generates a TOTP secret. MFA becomes active once a code is verified.",
                "tags": [
                    "MFA"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "401": {
                        "description": ""
                    },
                    "409": {
                        "description": "MFA already enabled"
                    }
                }
            }
        },
        "/v1/mfa/totp/verify": {
            "post": {
                "summary": "Confirm TOTP enrollment",
                "tags": [
                    "MFA"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Current code",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "204": {
                        "description": "wrong code"
                    },
                    "409": {
                        "description": "not enrolled or already enabled"
                    }
                }
            }
        },
        "/v1/orders": {
            "post": {
                "summary": "Create an order",
                "description": "Prices each line for the customer and applies the VAT regime. The order starts pending.",
                "tags": [
                    "Orders"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Order",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    }
                }
            },
            "get": {
                "summary": "List orders",
                "tags": [
                    "Orders"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Customer",
                        "name": "customer_id",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "pending, confirmed, shipped, delivered or cancelled",
                        "name": "status",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "backoffice or portal",
                        "name": "source",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Page size",
                        "name": "limit",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Offset",
                        "name": "offset",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/orders/{id}": {
            "get": {
                "summary": "Get an order",
                "tags": [
                    "Orders"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/orders/{id}/cancel": {
            "post": {
                "summary": "Cancel an order",
                "description": "A confirmed order gives its stock back.",
                "tags": [
                    "Orders"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "409": {
                        "description": "invalid_transition"
                    }
                }
            }
        },
        "/v1/orders/{id}/confirm": {
            "post": {
                "summary": "Confirm an order",
                "description": "Takes stock for every line or fails without changing anything.",
                "tags": [
                    "Orders"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "409": {
                        "description": "insufficient_stock or invalid_transition"
                    }
                }
            }
        },
        "/v1/orders/{id}/deliver": {
            "post": {
                "summary": "Mark delivered",
                "tags": [
                    "Orders"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "409": {
                        "description": "invalid_transition"
                    }
                }
            }
        },
        "/v1/orders/{id}/invoice": {
            "post": {
                "summary": "Invoice an order",
                "description": "Confirmed, shipped or delivered orders only; one live invoice per order.",
                "tags": [
                    "Invoices"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    },
                    "409": {
                        "description": "already invoiced or not sold"
                    }
                }
            }
        },
        "/v1/orders/{id}/ship": {
            "post": {
                "summary": "Mark shipped",
                "tags": [
                    "Orders"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "409": {
                        "description": "invalid_transition"
                    }
                }
            }
        },
        "/v1/portal/catalog": {
            "get": {
                "summary": "Browse the catalog",
                "description": "Active products in stock, with the wholesale price after the customer's discount.",
                "tags": [
                    "Portal"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Free text",
                        "name": "search",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Page size",
                        "name": "limit",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Offset",
                        "name": "offset",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "403": {
                        "description": "account not linked to a customer"
                    }
                }
            }
        },
        "/v1/portal/invoices": {
            "get": {
                "summary": "My invoices",
                "tags": [
                    "Portal"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Page size",
                        "name": "limit",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Offset",
                        "name": "offset",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/portal/orders": {
            "post": {
                "summary": "Place an order",
                "description": "Creates a pending order at catalog prices. Prices cannot be overridden.",
                "tags": [
                    "Portal"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Lines",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    },
                    "403": {
                        "description": ""
                    }
                }
            },
            "get": {
                "summary": "My orders",
                "tags": [
                    "Portal"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Page size",
                        "name": "limit",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Offset",
                        "name": "offset",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/portal/orders/{id}": {
            "get": {
                "summary": "One of my orders",
                "tags": [
                    "Portal"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/products": {
            "post": {
                "summary": "Create a product",
                "description": "An initial stock quantity is recorded as an initial movement.",
                "tags": [
                    "Catalog"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Product",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    },
                    "409": {
                        "description": "SKU taken"
                    }
                }
            },
            "get": {
                "summary": "List products",
                "tags": [
                    "Catalog"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Matches SKU, title, artist, label, catalog number or barcode",
                        "name": "search",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Supplier",
                        "name": "supplier_id",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "boolean",
                        "description": "Only products at or below their reorder point",
                        "name": "low_stock",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "boolean",
                        "description": "Hide archived products",
                        "name": "active",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Page size",
                        "name": "limit",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Offset",
                        "name": "offset",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/products/export": {
            "get": {
                "summary": "Export the catalog as CSV",
                "tags": [
                    "Catalog"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/products/import": {
            "post": {
                "summary": "Import products from CSV",
                "description": "Upserts by SKU. Rows that fail validation are reported and skipped.",
                "tags": [
                    "Catalog"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "400": {
                        "description": "unreadable file or header"
                    }
                }
            }
        },
        "/v1/products/{id}": {
            "get": {
                "summary": "Get a product",
                "tags": [
                    "Catalog"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Product id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    }
                }
            },
            "put": {
                "summary": "Update a product",
                "description": "Stock is not changed here; use the stock endpoint.",
                "tags": [
                    "Catalog"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Product id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Product",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    }
                }
            },
            "delete": {
                "summary": "Archive a product",
                "description": "Archived products stay referenced by history but leave the active catalog.",
                "tags": [
                    "Catalog"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Product id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/products/{id}/discogs": {
            "post": {
                "summary": "Fill metadata from Discogs",
                "description": "Without release_id the product barcode is searched.",
                "tags": [
                    "Catalog"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Product id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Release",
                        "name": "request",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    },
                    "502": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/products/{id}/movements": {
            "get": {
                "summary": "Stock movement history",
                "tags": [
                    "Inventory"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Product id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Most recent first",
                        "name": "limit",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/products/{id}/stock": {
            "post": {
                "summary": "Adjust stock",
                "description": "Applies a signed correction and records an adjustment movement. Stock never goes negative.",
                "tags": [
                    "Inventory"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Product id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Adjustment",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    },
                    "409": {
                        "description": "insufficient_stock or busy"
                    }
                }
            }
        },
        "/v1/purchase-orders": {
            "post": {
                "summary": "Create a draft purchase order",
                "tags": [
                    "Purchasing"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Purchase order",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    }
                }
            },
            "get": {
                "summary": "List purchase orders",
                "tags": [
                    "Purchasing"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "draft, sent, confirmed, partially_received, received, closed or cancelled",
                        "name": "status",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Supplier",
                        "name": "supplier_id",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Page size",
                        "name": "limit",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Offset",
                        "name": "offset",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/purchase-orders/{id}": {
            "get": {
                "summary": "Get a purchase order",
                "tags": [
                    "Purchasing"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    }
                }
            },
            "put": {
                "summary": "Edit a draft",
                "description": "Only drafts can be edited.",
                "tags": [
                    "Purchasing"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Purchase order",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "409": {
                        "description": "not a draft"
                    }
                }
            }
        },
        "/v1/purchase-orders/{id}/receive": {
            "post": {
                "summary": "Receive goods",
                "description": "Books receipt movements and moves the order to partially_received or received.",
                "tags": [
                    "Purchasing"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Received lines",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    },
                    "409": {
                        "description": "over receipt or wrong status"
                    }
                }
            }
        },
        "/v1/purchase-orders/{id}/transition": {
            "post": {
                "summary": "Change status",
                "description": "Allowed: draft to sent or cancelled, sent to confirmed or cancelled, confirmed to cancelled, received to closed.",
                "tags": [
                    "Purchasing"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Target status",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "409": {
                        "description": "invalid_transition"
                    }
                }
            }
        },
        "/v1/reports/margins": {
            "get": {
                "summary": "Margins on owned stock",
                "description": "Revenue minus current cost per product, excluding consignment stock.",
                "tags": [
                    "Reports"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Inclusive start",
                        "name": "from",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Exclusive end",
                        "name": "to",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/signup": {
            "post": {
                "summary": "Sign up a distributor",
                "description": "Creates a tenant and its owner account in one step.",
                "tags": [
                    "Auth"
                ],
                "parameters": [
                    {
                        "description": "Tenant and owner",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": ""
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "409": {
                        "description": "slug or email taken"
                    }
                }
            }
        },
        "/v1/suppliers": {
            "post": {
                "summary": "Create a supplier",
                "tags": [
                    "Suppliers"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Supplier",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    }
                }
            },
            "get": {
                "summary": "List suppliers",
                "tags": [
                    "Suppliers"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/suppliers/{id}": {
            "get": {
                "summary": "Get a supplier",
                "tags": [
                    "Suppliers"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Supplier id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    }
                }
            },
            "put": {
                "summary": "Update a supplier",
                "tags": [
                    "Suppliers"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Supplier id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Supplier",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    },
                    "404": {
                        "description": ""
                    }
                }
            },
            "delete": {
                "summary": "Delete a supplier",
                "description": "Refused while products or purchase orders reference the supplier.",
                "tags": [
                    "Suppliers"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Supplier id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": ""
                    },
                    "409": {
                        "description": "in use"
                    }
                }
            }
        },
        "/v1/suppliers/{id}/payouts": {
            "post": {
                "summary": "Record a payout",
                "description": "The amount may not exceed what is outstanding for the period.",
                "tags": [
                    "Consignment"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Supplier id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Payout",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    },
                    "409": {
                        "description": "exceeds balance"
                    }
                }
            },
            "get": {
                "summary": "List payouts",
                "tags": [
                    "Consignment"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Supplier id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Inclusive start",
                        "name": "from",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Exclusive end",
                        "name": "to",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/suppliers/{id}/statement": {
            "get": {
                "summary": "Consignment statement",
                "description": "Sales of the supplier's products in orders confirmed within [from, to), the commission kept and what is still owed.",
                "tags": [
                    "Consignment"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Supplier id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Inclusive start, YYYY-MM-DD (default: first day of this month)",
                        "name": "from",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Exclusive end, YYYY-MM-DD",
                        "name": "to",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "400": {
                        "description": "not a consignment supplier or bad period"
                    },
                    "404": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/tenant": {
            "get": {
                "summary": "Tenant profile",
                "tags": [
                    "Tenant"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            },
            "patch": {
                "summary": "Update tenant settings",
                "description": "Empty fields keep their current value.",
                "tags": [
                    "Tenant"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Settings",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/users": {
            "post": {
                "summary": "Create a user",
                "description": "Adds a staff, owner or pro user. Pro users must reference a customer.",
                "tags": [
                    "Users"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "User",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": ""
                    },
                    "400": {
                        "description": ""
                    },
                    "403": {
                        "description": ""
                    },
                    "409": {
                        "description": "email taken"
                    }
                }
            },
            "get": {
                "summary": "List users",
                "tags": [
                    "Users"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/users/{id}": {
            "delete": {
                "summary": "Delete a user",
                "tags": [
                    "Users"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "User id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "cannot delete yourself"
                    },
                    "404": {
                        "description": ""
                    }
                }
            }
        },
        "/v1/vat/validate": {
            "post": {
                "summary": "Check a VAT number",
                "description": "Validates the format, then asks VIES. Answers are cached.",
                "tags": [
                    "VAT"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "VAT number with country prefix",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": ""
                    },
                    "400": {
                        "description": "malformed number"
                    },
                    "502": {
                        "description": "VIES unavailable"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Outrenational ERP API",
	Description:      "Multi-tenant back office for vinyl distributors: catalog and stock, suppliers and consignment, purchasing, sales, invoicing and a pro customer portal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
