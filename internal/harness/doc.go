// Package harness provides conformance testing for the jsonx codecs.
//
// A scenario lists cases, each with one input in the text grammar, the
// JSON-framed tree form, or a CUE file. Every case is decoded, then
// encoded into both forms; the case's expect clause is checked against
// the outcome. Scenario-level assertions then check properties across
// cases.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	symbols:
//	  app.token: token
//	cases:
//	  - name: cyclic object
//	    text: '{"a": 1,"self": Ref("#")}'
//	    expect:
//	      kind: object
//	      tree: '["$obj",[[["$str","a"],["$num",1]],[["$str","self"],["$ref","#"]]]]'
//	  - name: same value as a tree
//	    tree: '["$arr",[["$num",1]]]'
//	    expect:
//	      text: '[1]'
//	  - name: imported
//	    cue: data.cue
//	  - name: dangling reference
//	    text: 'Ref("#/[0]")'
//	    expect:
//	      error: UNRESOLVED_REFERENCE
//	assertions:
//	  - type: round_trip
//	  - type: frame_round_trip
//	    frames: [yaml, cbor]
//	  - type: store_round_trip
//	  - type: same_tree
//	    cases: [cyclic object, same value]
//	  - type: warning_count
//	    count: 0
//
// Symbols are registered under their identifier with the given
// description before any case runs. CUE paths are relative to the
// scenario file.
//
// # Assertion Types
//
//   - round_trip: every decoded value survives text and tree re-parsing
//   - frame_round_trip: every decoded value survives the listed frames
//   - store_round_trip: every decoded value survives the SQLite store
//   - same_tree: the listed cases encode to identical trees
//   - warning_count: the run logged exactly count warnings
//
// round_trip, frame_round_trip and store_round_trip may name a single
// case; without one they apply to every case that decoded.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/references.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
