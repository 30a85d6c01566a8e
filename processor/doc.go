// Package processor defines the operation and document processor chains.
//
// An operation processor inspects the draft operation of one action method
// and either mutates it or vetoes it. A veto removes the operation from the
// document and stops the rest of the chain:
//
//	type internalOnly struct{}
//
//	func (internalOnly) Process(_ context.Context, oc *processor.Context) (processor.Decision, error) {
//	    if strings.HasPrefix(oc.Operation.Path, "/internal") {
//	        return processor.Veto, nil
//	    }
//	    return processor.Continue, nil
//	}
//
// Document processors run once after every operation has been collected.
//
// The built-in processors cover API versions, tags, summaries and
// descriptions, extension data, media types and deprecation. Processors
// named by UseProcessor attributes are created through a Registry.
package processor
