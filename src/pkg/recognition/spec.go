package recognition

import (
	"fmt"
	"strings"
)

const openAPITemplate = `%s:
  get:
    tags:
      - %s
    summary: Welcome
    description: Describes how to use the service
    responses:
      '200':
        description: Welcome message
        content:
          application/json:
            schema:
              type: object
              properties:
                message:
                  type: string
                statusCode:
                  type: integer
              required:
                - message
                - statusCode
  post:
    tags:
      - %s
    summary: Recognize face
    description: Stores the uploaded image and returns the classification computed for it
    requestBody:
      required: true
      content:
        multipart/form-data:
          schema:
            type: object
            properties:
              inputFile:
                type: string
                format: binary
                description: Image file, classified by its name up to the first '.'
            required:
              - inputFile
    responses:
      '200':
        description: Match found, body is "<identifier>:<value>"
        content:
          text/plain:
            schema:
              type: string
      '401':
        description: No classification stored for the identifier
      '422':
        description: The inputFile field is missing
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/ErrorDetail'
      '500':
        description: Internal server error
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/ErrorDetail'`

func GetOpenAPISpec(rootPath, tag string) string {
	if rootPath == "" || tag == "" {
		return ""
	}

	// The root path keeps its slash, everything else loses a trailing one.
	if rootPath != "/" {
		rootPath = strings.TrimSuffix(rootPath, "/")
	}

	return fmt.Sprintf(openAPITemplate, quote(rootPath), tag, tag)
}

func quote(path string) string {
	return "'" + path + "'"
}
