// Package manifest defines the recipe format for image assembly.
//
// A recipe is an ordered list of stages. Each stage names a base image
// source and carries a list of steps: shell commands, file copies from
// the build context, and cross-stage copies of the form "stage:path".
// The recipe also carries the runtime declaration for the exported
// image: the entrypoint to launch on container start and the network
// port the process binds.
//
// Recipes are written in YAML:
//
//	name: frontend
//	port: 80
//	entrypoint: ["nginx", "-g", "daemon off;"]
//	stages:
//	  - name: build
//	    from: image:node:18-alpine
//	    transient: true
//	    steps:
//	      - workdir: /app
//	      - copy: package.json package.json
//	      - run: npm ci
//	  - name: serve
//	    from: image:nginx:alpine
//	    steps:
//	      - copy: build:/app/dist /usr/share/nginx/html
//
// Load parses and validates a recipe file. Validation enforces the
// runtime declaration invariants (exactly one entrypoint, at most one
// port) and the stage ordering rules (the final stage is the only
// non-transient one, cross-stage copies reference earlier stages).
package manifest
