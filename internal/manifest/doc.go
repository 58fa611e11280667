// Package manifest loads nap.yaml, the file describing the application to
// publish and, optionally, where and how to publish it.
//
//	id: com.example.app
//	name: Example
//	description: Does things
//	icon: https://example.com/icon.png
//	images: [https://example.com/1.png]
//	repository: https://github.com/example/app
//	license: MIT
//	tags: [tools]
//	relays:
//	  - wss://relay.example.com
//	  - url: wss://slow.example.com
//	    timeout: 30s
//	publish:
//	  timeout: 10s
//	  retries: 2
//	  backoff: 500ms
//
// Relays listed in NAP_RELAYS (comma separated) replace the file's list.
package manifest
