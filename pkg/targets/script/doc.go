// Package script is the client script render target.
//
// It emits JavaScript that wires the page produced by the HTML target:
// event handlers named in an element's wrapper, value or label property
// sets, widgets for form inputs and title hooks for references. The
// generated calls (dynamicOnLoad, dynamicHandlerAttach,
// dynamicFieldAttach_<widget> and dynamicTitleAttach) are provided by the
// page's client library. The compiler covers every template of a
// configuration, so one script serves every page built from it.
package script
